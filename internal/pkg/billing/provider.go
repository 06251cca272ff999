package billing

import "context"

// Provider is the payment provider capability used by the catalog resolver,
// the checkout builder and the webhook reconciler.
type Provider interface {
	ListPrices(ctx context.Context, expandProducts bool) ([]Price, error)
	ListProducts(ctx context.Context) ([]Product, error)
	CreatePrice(ctx context.Context, p NewPrice) (*Price, error)
	CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*CheckoutSession, error)
	// VerifyWebhook authenticates payload against signatureHeader and only
	// then decodes it. Failures are apperrors.KindSecurity.
	VerifyWebhook(payload []byte, signatureHeader string) (*Event, error)
}
