package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

// StripeConfig holds the configuration for creating a StripeProvider.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// BaseURL overrides the API endpoint (tests).
	BaseURL string
}

// StripeProvider implements Provider on top of the Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	var backends *stripe.Backends
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		backends = &stripe.Backends{
			API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
				URL:               stripe.String(base),
				MaxNetworkRetries: stripe.Int64(0),
			}),
		}
	}

	api := &client.API{}
	api.Init(strings.TrimSpace(cfg.SecretKey), backends)
	return &StripeProvider{api: api, webhookSecret: cfg.WebhookSecret}
}

func NewStripeProviderFromEnv() *StripeProvider {
	return NewStripeProvider(StripeConfig{
		SecretKey:     env.GetEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		BaseURL:       env.GetEnv("STRIPE_API_BASE_URL", ""),
	})
}

func (s *StripeProvider) ListPrices(ctx context.Context, expandProducts bool) ([]Price, error) {
	params := &stripe.PriceListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(100)
	if expandProducts {
		params.AddExpand("data.product")
	}

	var out []Price
	it := s.api.Prices.List(params)
	for it.Next() {
		out = append(out, priceFromStripe(it.Price()))
	}
	if err := it.Err(); err != nil {
		return nil, wrapStripeError("billing.list_prices", err)
	}
	return out, nil
}

func (s *StripeProvider) ListProducts(ctx context.Context) ([]Product, error) {
	params := &stripe.ProductListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var out []Product
	it := s.api.Products.List(params)
	for it.Next() {
		p := it.Product()
		out = append(out, Product{ID: p.ID, Name: p.Name, Active: p.Active})
	}
	if err := it.Err(); err != nil {
		return nil, wrapStripeError("billing.list_products", err)
	}
	return out, nil
}

func (s *StripeProvider) CreatePrice(ctx context.Context, p NewPrice) (*Price, error) {
	params := &stripe.PriceParams{
		Currency:   stripe.String(strings.ToLower(p.Currency)),
		UnitAmount: stripe.Int64(p.UnitAmount),
		Nickname:   stripe.String(p.Nickname),
		Product:    stripe.String(p.ProductID),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(p.Interval),
		},
	}
	params.Context = ctx

	created, err := s.api.Prices.New(params)
	if err != nil {
		return nil, wrapStripeError("billing.create_price", err)
	}
	out := priceFromStripe(created)
	return &out, nil
}

func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		BillingAddressCollection: stripe.String("auto"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(p.ClientReferenceID),
		SuccessURL:        stripe.String(p.SuccessURL),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	if p.CancelURL != "" {
		params.CancelURL = stripe.String(p.CancelURL)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("billing.create_checkout_session", err)
	}
	return &CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		Mode:              string(sess.Mode),
		ClientReferenceID: sess.ClientReferenceID,
		CustomerEmail:     sess.CustomerEmail,
		SuccessURL:        sess.SuccessURL,
		CancelURL:         sess.CancelURL,
		PriceID:           p.PriceID,
	}, nil
}

func (s *StripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*Event, error) {
	return ParseStripeEvent(payload, signatureHeader, s.webhookSecret)
}

func priceFromStripe(p *stripe.Price) Price {
	out := Price{
		ID:         p.ID,
		Nickname:   p.Nickname,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		Active:     p.Active,
	}
	if p.Recurring != nil {
		out.Interval = string(p.Recurring.Interval)
	}
	if p.Product != nil {
		out.ProductID = p.Product.ID
		out.ProductName = p.Product.Name
	}
	return out
}

func wrapStripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return apperrors.ExternalService(op, fmt.Errorf("stripe %s (status %d): %s", se.Code, se.HTTPStatusCode, se.Msg))
	}
	return apperrors.ExternalService(op, err)
}
