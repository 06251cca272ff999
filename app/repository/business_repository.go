package repository

import (
	"context"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"gorm.io/gorm"
)

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository instance
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// GetByID retrieves a business by its ID
func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).First(&business, id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}
