// Package billingtest provides an in-memory payment provider for tests.
package billingtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
)

const WebhookSecret = "whsec_test_secret"

// FakeProvider keeps a price catalog in memory and verifies webhooks with the
// real Stripe signature scheme.
type FakeProvider struct {
	mu       sync.Mutex
	prices   []billing.Price
	products []billing.Product
	sessions []billing.CheckoutSessionParams
	created  int
	nextID   int

	Secret string
	// Err, when set, is returned by every catalog and checkout call.
	Err error
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{Secret: WebhookSecret}
}

func (f *FakeProvider) AddProduct(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, billing.Product{ID: id, Name: name, Active: true})
}

func (f *FakeProvider) AddPrice(p billing.Price) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices = append(f.prices, p)
}

// CreatedPrices returns how many prices were created through CreatePrice.
func (f *FakeProvider) CreatedPrices() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Sessions returns the parameters of every checkout session requested.
func (f *FakeProvider) Sessions() []billing.CheckoutSessionParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]billing.CheckoutSessionParams, len(f.sessions))
	copy(out, f.sessions)
	return out
}

func (f *FakeProvider) ListPrices(_ context.Context, expandProducts bool) ([]billing.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]billing.Price, len(f.prices))
	copy(out, f.prices)
	if !expandProducts {
		for i := range out {
			out[i].ProductName = ""
		}
	}
	return out, nil
}

func (f *FakeProvider) ListProducts(context.Context) ([]billing.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]billing.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *FakeProvider) CreatePrice(_ context.Context, p billing.NewPrice) (*billing.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.nextID++
	f.created++
	price := billing.Price{
		ID:         fmt.Sprintf("price_fake_%d", f.nextID),
		Nickname:   p.Nickname,
		UnitAmount: p.UnitAmount,
		Currency:   p.Currency,
		Interval:   p.Interval,
		ProductID:  p.ProductID,
		Active:     true,
	}
	for _, prod := range f.products {
		if prod.ID == p.ProductID {
			price.ProductName = prod.Name
		}
	}
	f.prices = append(f.prices, price)
	return &price, nil
}

func (f *FakeProvider) CreateCheckoutSession(_ context.Context, p billing.CheckoutSessionParams) (*billing.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.sessions = append(f.sessions, p)
	id := fmt.Sprintf("cs_test_%d", len(f.sessions))
	return &billing.CheckoutSession{
		ID:                id,
		URL:               "https://checkout.example.test/pay/" + id,
		Mode:              "subscription",
		ClientReferenceID: p.ClientReferenceID,
		CustomerEmail:     p.CustomerEmail,
		SuccessURL:        p.SuccessURL,
		CancelURL:         p.CancelURL,
		PriceID:           p.PriceID,
	}, nil
}

func (f *FakeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*billing.Event, error) {
	return billing.ParseStripeEvent(payload, signatureHeader, f.Secret)
}

// EventPayload builds a Stripe event envelope around object.
func EventPayload(t testing.TB, id, eventType string, object interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal event object: %v", err)
	}
	body, err := json.Marshal(map[string]interface{}{
		"id":          id,
		"object":      "event",
		"api_version": "2025-03-31.basil",
		"created":     time.Now().Unix(),
		"type":        eventType,
		"data":        map[string]json.RawMessage{"object": raw},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return body
}

// SignPayload returns a valid Stripe-Signature header for payload.
func SignPayload(payload []byte, secret string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

// CheckoutCompleted builds a checkout.session.completed session object.
func CheckoutCompleted(sessionID, clientReferenceID string, amount int64, currency, subscriptionID string) map[string]interface{} {
	return map[string]interface{}{
		"id":                  sessionID,
		"object":              "checkout.session",
		"client_reference_id": clientReferenceID,
		"amount_subtotal":     amount,
		"amount_total":        amount,
		"currency":            currency,
		"payment_status":      "paid",
		"mode":                "subscription",
		"subscription":        subscriptionID,
	}
}
