// Package claims owns the one-claim-per-business invariant.
package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
)

// Details are the claimant-supplied fields stored on a new claim.
type Details struct {
	Role    string `json:"role"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Manager creates and looks up business claims.
type Manager struct {
	businesses repository.BusinessRepository
	claims     repository.ClaimRepository
}

// NewManager creates a claim manager from injected repositories.
func NewManager(businesses repository.BusinessRepository, claims repository.ClaimRepository) *Manager {
	return &Manager{businesses: businesses, claims: claims}
}

// NewManagerFromDB creates a claim manager from a GORM DB handle.
func NewManagerFromDB(db *gorm.DB) *Manager {
	return NewManager(repository.NewBusinessRepository(db), repository.NewClaimRepository(db))
}

// CreateClaim claims a business for userID. The pre-read only produces the
// friendly Conflict message; the conditional write in the repository decides
// the winner when callers race.
func (m *Manager) CreateClaim(ctx context.Context, businessID, userID uint, details Details) (*models.BusinessClaim, error) {
	const op = "claims.create"
	if businessID == 0 || userID == 0 {
		return nil, apperrors.Validation(op, "business id and user id are required")
	}

	claim := &models.BusinessClaim{
		BusinessID: businessID,
		UserID:     userID,
		Role:       strings.TrimSpace(details.Role),
		Phone:      strings.TrimSpace(details.Phone),
		Email:      strings.TrimSpace(details.Email),
		Message:    strings.TrimSpace(details.Message),
	}
	if err := claim.Validate(); err != nil {
		return nil, apperrors.Validation(op, err.Error())
	}

	business, err := m.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(op, "This business does not exist in our records")
		}
		return nil, apperrors.Persistence(op, err)
	}
	if business.IsClaimed() {
		return nil, alreadyClaimed(op, business)
	}

	if err := m.claims.CreateForBusiness(ctx, claim); err != nil {
		if errors.Is(err, repository.ErrBusinessAlreadyClaimed) {
			return nil, alreadyClaimed(op, business)
		}
		return nil, apperrors.Persistence(op, err)
	}

	business.ClaimedBy = &userID
	claim.Business = business
	log.Infof("claims: business %d claimed by user %d (claim %s)", businessID, userID, claim.UUID)
	return claim, nil
}

// GetClaim returns the claim for a business.
func (m *Manager) GetClaim(ctx context.Context, businessID uint) (*models.BusinessClaim, error) {
	const op = "claims.get"
	claim, err := m.claims.GetByBusinessID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(op, fmt.Sprintf("No claim exists for business %d", businessID))
		}
		return nil, apperrors.Persistence(op, err)
	}
	return claim, nil
}

func alreadyClaimed(op string, business *models.Business) error {
	return apperrors.Conflict(op, fmt.Sprintf("%s has previously been claimed", business.BusinessName))
}
