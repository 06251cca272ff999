package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
)

// EventLog records verified webhook deliveries so that an event which has
// already been applied is not dispatched again.
type EventLog struct {
	repo EventRepository
	now  func() time.Time
}

func NewEventLog(repo EventRepository) *EventLog {
	return &EventLog{repo: repo, now: time.Now}
}

func NewEventLogFromDB(db *gorm.DB) *EventLog {
	return NewEventLog(NewEventRepository(db))
}

// RecordWebhookEvent persists a webhook payload idempotently and returns the
// stored row. created is false when the event had been recorded before.
func (l *EventLog) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.PaymentWebhookEvent, error) {
	const op = "billing.record_webhook_event"
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, apperrors.Validation(op, "provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.PaymentWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
	}
	created, stored, err := l.repo.CreateWebhookEventIfNotExists(ctx, event)
	if err != nil {
		return false, nil, apperrors.Persistence(op, err)
	}
	return created, stored, nil
}

// MarkWebhookProcessed marks an event as processed and stores an optional
// error. Validation errors are recorded as permanent failures.
func (l *EventLog) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	const op = "billing.mark_webhook_processed"
	if webhookEventID == 0 {
		return apperrors.Validation(op, "webhook event id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	permanent := apperrors.Is(processingErr, apperrors.KindValidation)
	if err := l.repo.MarkWebhookProcessed(ctx, webhookEventID, l.now(), errMsg, permanent); err != nil {
		return apperrors.Persistence(op, err)
	}
	return nil
}
