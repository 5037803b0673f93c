package paypal

const (
	IntentCapture = "CAPTURE"
	RelApprove    = "approve"
)

// OrderRequest is the body sent to the Orders v2 create endpoint.
type OrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

type PurchaseUnit struct {
	Amount Amount `json:"amount"`
	Payee  Payee  `json:"payee"`
}

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Payee struct {
	EmailAddress string `json:"email_address"`
}

type ApplicationContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

// Order is the subset of the create-order response the relay reads.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// FindLink returns the first link with the given relation.
func (o *Order) FindLink(rel string) (Link, bool) {
	for _, l := range o.Links {
		if l.Rel == rel {
			return l, true
		}
	}
	return Link{}, false
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AppID       string `json:"app_id"`
	Scope       string `json:"scope"`
	ExpiresIn   int64  `json:"expires_in"`
}
