package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-relay/internal/telemetry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	_, tracer, metrics := telemetry.Nop()
	return NewClient(srv.URL+"/", 0, metrics, tracer)
}

func TestFetchToken_SendsClientCredentialsGrant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/oauth2/token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		id, secret, ok := r.BasicAuth()
		if !ok || id != "client" || secret != "s3cret" {
			t.Errorf("basic auth = %q/%q (ok=%v)", id, secret, ok)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "grant_type=client_credentials" {
			t.Errorf("body = %q", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc","expires_in":32400}`))
	})

	resp, err := client.FetchToken(context.Background(), "client", "s3cret")
	if err != nil {
		t.Fatalf("FetchToken() error = %v", err)
	}
	if !resp.OK() {
		t.Errorf("expected 2xx, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"access_token":"abc","expires_in":32400}` {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestCreateOrder_SendsBearerAndRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/checkout/orders" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("PayPal-Request-Id"); got != "req-1" {
			t.Errorf("PayPal-Request-Id = %q", got)
		}
		var order OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			t.Errorf("invalid body: %v", err)
			return
		}
		if order.Intent != IntentCapture || len(order.PurchaseUnits) != 1 {
			t.Errorf("unexpected order %+v", order)
			return
		}
		if order.PurchaseUnits[0].Amount.Value != "10.00" {
			t.Errorf("amount = %q", order.PurchaseUnits[0].Amount.Value)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"O-1"}`))
	})

	resp, err := client.CreateOrder(context.Background(), "tok", "req-1", OrderRequest{
		Intent: IntentCapture,
		PurchaseUnits: []PurchaseUnit{{
			Amount: Amount{CurrencyCode: "USD", Value: "10.00"},
			Payee:  Payee{EmailAddress: "payee@example.com"},
		}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestCaptureOrder_EscapesOrderID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/v2/checkout/orders/a%2Fb/capture" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
	})

	resp, err := client.CaptureOrder(context.Background(), "tok", "", "a/b")
	if err != nil {
		t.Fatalf("CaptureOrder() error = %v", err)
	}
	if resp.OK() {
		t.Error("expected a non-2xx response")
	}
	if resp.ContentType != "application/json" {
		t.Errorf("ContentType = %q", resp.ContentType)
	}
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, tracer, metrics := telemetry.Nop()
	client := NewClient(srv.URL, 0, metrics, tracer)

	_, err := client.FetchToken(context.Background(), "id", "secret")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFindLink(t *testing.T) {
	order := Order{Links: []Link{
		{Href: "https://self", Rel: "self"},
		{Href: "https://approve", Rel: "approve"},
	}}

	link, ok := order.FindLink(RelApprove)
	if !ok || link.Href != "https://approve" {
		t.Errorf("FindLink(approve) = %+v, %v", link, ok)
	}
	if _, ok := order.FindLink("capture"); ok {
		t.Error("expected no capture link")
	}
}
