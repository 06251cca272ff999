package billing

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
)

var errWebhookSecretMissing = errors.New("webhook secret is not configured")

// ParseStripeEvent verifies a Stripe-Signature header (HMAC-SHA256 over
// "timestamp.payload", with timestamp tolerance) and decodes the event. The
// payload is not unmarshalled before the signature has been checked.
func ParseStripeEvent(payload []byte, signatureHeader, webhookSecret string) (*Event, error) {
	const op = "billing.verify_webhook"
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if secret == "" {
		return nil, apperrors.Security(op, errWebhookSecretMissing)
	}
	if sig == "" {
		return nil, apperrors.Security(op, webhook.ErrNotSigned)
	}

	// Stripe CLI deliveries may carry a different API version; the signature
	// is still checked.
	ev, err := webhook.ConstructEventWithOptions(payload, sig, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, apperrors.Security(op, err)
	}

	var data json.RawMessage
	if ev.Data != nil {
		data = ev.Data.Raw
	}
	return &Event{ID: ev.ID, Type: string(ev.Type), Data: data}, nil
}
