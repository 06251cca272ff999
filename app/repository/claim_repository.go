package repository

import (
	"context"
	"errors"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"gorm.io/gorm"
)

type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new business claim repository instance
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) CreateForBusiness(ctx context.Context, claim *models.BusinessClaim) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Business{}).
			Where("id = ? AND claimed_by IS NULL", claim.BusinessID).
			Update("claimed_by", claim.UserID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBusinessAlreadyClaimed
		}

		// Omit associations so a preloaded Business or User is never upserted.
		if err := tx.Omit("Business", "User").Create(claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrBusinessAlreadyClaimed
			}
			return err
		}
		return nil
	})
}

func (r *claimRepository) GetByBusinessID(ctx context.Context, businessID uint) (*models.BusinessClaim, error) {
	var claim models.BusinessClaim
	err := r.db.WithContext(ctx).
		Preload("Business").
		Preload("User").
		Where("business_id = ?", businessID).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) CountByBusinessID(ctx context.Context, businessID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BusinessClaim{}).Where("business_id = ?", businessID).Count(&count).Error
	return count, err
}

func (r *claimRepository) UpdatePayment(ctx context.Context, claim *models.BusinessClaim) error {
	updates := map[string]interface{}{
		"current_plan":                     claim.CurrentPlan,
		"payment_status":                   claim.Payment.Status,
		"payment_amount_paid":              claim.Payment.AmountPaid,
		"payment_currency":                 claim.Payment.Currency,
		"payment_external_subscription_id": claim.Payment.ExternalSubscriptionID,
		"payment_paid_date":                claim.Payment.PaidDate,
	}
	// RowsAffected is not checked: MySQL reports 0 when a replayed event
	// writes identical values.
	return r.db.WithContext(ctx).Model(&models.BusinessClaim{}).Where("id = ?", claim.ID).Updates(updates).Error
}
