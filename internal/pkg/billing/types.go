package billing

import "encoding/json"

// Price is a provider catalog entry. Nickname is the only link between a
// catalog entry and an internal plan.
type Price struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	UnitAmount  int64  `json:"unit_amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval,omitempty"`
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Active      bool   `json:"active"`
}

type Product struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// NewPrice describes a recurring catalog entry to create.
type NewPrice struct {
	Nickname   string
	UnitAmount int64
	Currency   string
	Interval   string
	ProductID  string
}

// CheckoutSessionParams is the provider-neutral input for a hosted
// subscription checkout.
type CheckoutSessionParams struct {
	PriceID           string
	ClientReferenceID string
	CustomerEmail     string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

// CheckoutSession is the provider-hosted handoff returned to the client for
// redirect.
type CheckoutSession struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	Mode              string `json:"mode"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email,omitempty"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url,omitempty"`
	PriceID           string `json:"price_id"`
}

// Event is a verified webhook event. Data holds the raw event object.
type Event struct {
	ID   string
	Type string
	Data json.RawMessage
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
}
