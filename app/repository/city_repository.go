package repository

import (
	"context"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"gorm.io/gorm"
)

type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new city repository instance
func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

// GetByID retrieves a city by its ID
func (r *cityRepository) GetByID(ctx context.Context, id uint) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).First(&city, id).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// Update saves all fields of an existing city
func (r *cityRepository) Update(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Save(city).Error
}

// ToggleFeatured flips is_featured in a single statement and returns the
// stored city.
func (r *cityRepository) ToggleFeatured(ctx context.Context, id uint) (*models.City, error) {
	res := r.db.WithContext(ctx).Model(&models.City{}).
		Where("id = ?", id).
		Update("is_featured", gorm.Expr("NOT is_featured"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
