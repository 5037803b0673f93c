package models

// OrderRequest is what a caller posts to create-order.
type OrderRequest struct {
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	PayeeEmail string `json:"payeeEmail"`
}

// CreatedOrder is returned to the caller once upstream has accepted the order.
// CorrelationToken only lets the client match the approval redirect back to
// this order; nothing on the server side checks it.
type CreatedOrder struct {
	OrderID          string `json:"orderID"`
	ApproveLink      string `json:"approveLink"`
	CorrelationToken string `json:"correlationToken"`
}

// CaptureResult is the upstream capture reply, relayed as-is.
type CaptureResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
