package billing

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionCreated      = "customer.subscription.created"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionTrialWillEnd = "customer.subscription.trial_will_end"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
)

// EventHandler applies one verified event. A returned error makes the
// delivery fail so the provider retries it.
type EventHandler func(ctx context.Context, ev *Event) error

// ClaimPaymentStore is the claim persistence the reconciler needs.
type ClaimPaymentStore interface {
	GetByBusinessID(ctx context.Context, businessID uint) (*models.BusinessClaim, error)
	UpdatePayment(ctx context.Context, claim *models.BusinessClaim) error
}

type WebhookResult struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Handled   bool   `json:"handled"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// WebhookReconciler verifies provider webhooks and dispatches them by event
// type. Claim state moves from claimed to subscribed only through here.
type WebhookReconciler struct {
	provider Provider
	claims   ClaimPaymentStore
	events   *EventLog
	handlers map[string]EventHandler
	now      func() time.Time
}

// NewWebhookReconciler wires the default dispatch table. events may be nil,
// in which case deliveries are not logged and never short-circuited.
func NewWebhookReconciler(provider Provider, claims ClaimPaymentStore, events *EventLog) *WebhookReconciler {
	r := &WebhookReconciler{
		provider: provider,
		claims:   claims,
		events:   events,
		now:      time.Now,
	}
	r.handlers = map[string]EventHandler{
		EventCheckoutSessionCompleted: r.AcknowledgeClaimPayment,
		EventSubscriptionCreated:      acknowledgeLifecycle,
		EventSubscriptionUpdated:      acknowledgeLifecycle,
		EventSubscriptionTrialWillEnd: acknowledgeLifecycle,
		EventSubscriptionDeleted:      acknowledgeLifecycle,
	}
	return r
}

// Handle registers or replaces the handler for an event type.
func (r *WebhookReconciler) Handle(eventType string, h EventHandler) {
	r.handlers[eventType] = h
}

// SetClock replaces the time source used for paid dates.
func (r *WebhookReconciler) SetClock(now func() time.Time) {
	r.now = now
}

// HandleWebhookEvent authenticates rawBody and applies it. Signature failures
// are apperrors.KindSecurity and nothing else is read from the body. Unknown
// event types are acknowledged; failures of handled types are returned.
func (r *WebhookReconciler) HandleWebhookEvent(ctx context.Context, rawBody []byte, signatureHeader string) (*WebhookResult, error) {
	const op = "billing.handle_webhook"
	ev, err := r.provider.VerifyWebhook(rawBody, signatureHeader)
	if err != nil {
		if apperrors.KindOf(err) == "" {
			err = apperrors.Security(op, err)
		}
		log.Warnf("billing: rejected webhook delivery: %v", err)
		return nil, err
	}

	result := &WebhookResult{EventID: ev.ID, EventType: ev.Type}

	var stored *models.PaymentWebhookEvent
	if r.events != nil {
		_, stored, err = r.events.RecordWebhookEvent(ctx, WebhookEventInput{
			Provider:        models.PaymentProviderStripe,
			ProviderEventID: ev.ID,
			EventType:       ev.Type,
			PayloadJSON:     string(rawBody),
		})
		if err != nil {
			return nil, err
		}
		if stored.IsApplied() {
			log.Infof("billing: event %s (%s) already applied, skipping", ev.ID, ev.Type)
			result.Duplicate = true
			return result, nil
		}
	}

	h, ok := r.handlers[ev.Type]
	if !ok {
		h = acknowledgeUnhandled
	}
	result.Handled = ok
	herr := h(ctx, ev)

	if stored != nil {
		if err := r.events.MarkWebhookProcessed(ctx, stored.ID, herr); err != nil && herr == nil {
			return nil, err
		}
	}
	if herr != nil {
		if apperrors.Is(herr, apperrors.KindValidation) {
			log.Errorf("billing: event %s (%s) cannot be applied on any retry: %v", ev.ID, ev.Type, herr)
			return nil, herr
		}
		log.Errorf("billing: event %s (%s) failed: %v", ev.ID, ev.Type, herr)
		return nil, herr
	}
	return result, nil
}

func acknowledgeLifecycle(_ context.Context, ev *Event) error {
	log.Infof("billing: subscription lifecycle event %s (%s) acknowledged", ev.ID, ev.Type)
	return nil
}

func acknowledgeUnhandled(_ context.Context, ev *Event) error {
	log.Infof("billing: unhandled event type %s (%s)", ev.Type, ev.ID)
	return nil
}
