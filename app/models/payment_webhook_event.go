package models

import "time"

const PaymentProviderStripe = "stripe"

// PaymentWebhookEvent stores verified provider webhook payloads with
// deduplication metadata. A row with ProcessedAt set and an empty
// ProcessingError has been fully applied. PermanentFailure marks a payload
// that failed validation and cannot succeed on redelivery.
type PaymentWebhookEvent struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Provider         string     `gorm:"type:varchar(20);not null;index:ux_payment_webhook_events_provider_event,unique,priority:1;index" json:"provider"`
	ProviderEventID  string     `gorm:"type:varchar(191);not null;default:'';index:ux_payment_webhook_events_provider_event,unique,priority:2" json:"provider_event_id"`
	EventType        string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON      string     `gorm:"type:longtext;not null" json:"payload_json"`
	ProcessedAt      *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError  string     `gorm:"type:text" json:"processing_error"`
	PermanentFailure bool       `gorm:"not null;default:false;index" json:"permanent_failure"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *PaymentWebhookEvent) IsApplied() bool {
	return e.ProcessedAt != nil && e.ProcessingError == ""
}
