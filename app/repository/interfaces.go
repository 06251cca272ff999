package repository

import (
	"context"
	"errors"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"gorm.io/gorm"
)

// ErrBusinessAlreadyClaimed is returned when the conditional claim write finds
// claimed_by already set, or a claim row already exists for the business.
var ErrBusinessAlreadyClaimed = errors.New("business already claimed")

// UserRepository defines the interface for user lookups
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// BusinessRepository defines the interface for business lookups
type BusinessRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Business, error)
}

// ClaimRepository defines the interface for business claim operations
type ClaimRepository interface {
	// CreateForBusiness sets businesses.claimed_by only if it is unset and
	// inserts the claim, in one transaction. Returns ErrBusinessAlreadyClaimed
	// when another claim won.
	CreateForBusiness(ctx context.Context, claim *models.BusinessClaim) error
	GetByBusinessID(ctx context.Context, businessID uint) (*models.BusinessClaim, error)
	CountByBusinessID(ctx context.Context, businessID uint) (int64, error)
	// UpdatePayment overwrites the plan and payment columns of the claim.
	UpdatePayment(ctx context.Context, claim *models.BusinessClaim) error
}

// CityRepository defines the interface for city operations
type CityRepository interface {
	GetByID(ctx context.Context, id uint) (*models.City, error)
	Update(ctx context.Context, city *models.City) error
	ToggleFeatured(ctx context.Context, id uint) (*models.City, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Business BusinessRepository
	Claim    ClaimRepository
	City     CityRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Business: NewBusinessRepository(db),
		Claim:    NewClaimRepository(db),
		City:     NewCityRepository(db),
	}
}
