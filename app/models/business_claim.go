package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimPayment is the last payment recorded for a claim. Every field stays
// nil until the first completed checkout arrives.
type ClaimPayment struct {
	Status                 *string    `gorm:"type:varchar(32);default:null" json:"status"`
	AmountPaid             *float64   `gorm:"type:decimal(10,2);default:null" json:"amount_paid"`
	Currency               *string    `gorm:"type:varchar(8);default:null" json:"currency"`
	ExternalSubscriptionID *string    `gorm:"type:varchar(191);default:null" json:"external_subscription_id"`
	PaidDate               *time.Time `gorm:"type:timestamp;default:null" json:"paid_date"`
}

// BusinessClaim ties a business to the user who claimed it. There is at most
// one claim per business (unique business_id).
type BusinessClaim struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UUID        string       `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	BusinessID  uint         `gorm:"not null;uniqueIndex:ux_business_claims_business" json:"business_id"`
	Business    *Business    `gorm:"foreignKey:BusinessID" json:"business,omitempty" validate:"-"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	Role        string       `gorm:"type:varchar(100);not null" json:"role" validate:"required,min=2,max=100"`
	Phone       string       `gorm:"type:varchar(30)" json:"phone" validate:"omitempty,min=5,max=30"`
	Email       string       `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email,max=200"`
	Message     string       `gorm:"type:text" json:"message" validate:"max=2000"`
	CurrentPlan *string      `gorm:"type:varchar(100);default:null" json:"current_plan"`
	Payment     ClaimPayment `gorm:"embedded;embeddedPrefix:payment_" json:"payment" validate:"-"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *BusinessClaim) Validate() error {
	v := validator.New()
	return v.Struct(c)
}

// BeforeCreate assigns the public UUID.
func (c *BusinessClaim) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

func (c *BusinessClaim) HasPayment() bool {
	return c.Payment.Status != nil
}
