package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/database/dbtest"
)

func TestClaimRepository_CreateForBusiness(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	business := dbtest.SeedBusiness(t, db, "Joe's Diner")
	owner := dbtest.SeedUser(t, db, "Joe", "joe@example.com")
	repo := repository.NewClaimRepository(db)

	claim := &models.BusinessClaim{BusinessID: business.ID, UserID: owner.ID, Role: "Owner"}
	require.NoError(t, repo.CreateForBusiness(ctx, claim))
	assert.NotZero(t, claim.ID)
	assert.Len(t, claim.UUID, 36)

	var stored models.Business
	require.NoError(t, db.First(&stored, business.ID).Error)
	require.NotNil(t, stored.ClaimedBy)
	assert.Equal(t, owner.ID, *stored.ClaimedBy)

	loaded, err := repo.GetByBusinessID(ctx, business.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Business)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "Joe's Diner", loaded.Business.BusinessName)
	assert.Equal(t, "Joe", loaded.User.FirstName)
	assert.False(t, loaded.HasPayment())
}

func TestClaimRepository_CreateForBusiness_AlreadyClaimed(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	business := dbtest.SeedBusiness(t, db, "Joe's Diner")
	first := dbtest.SeedUser(t, db, "Joe", "joe@example.com")
	second := dbtest.SeedUser(t, db, "Ann", "ann@example.com")
	repo := repository.NewClaimRepository(db)

	require.NoError(t, repo.CreateForBusiness(ctx, &models.BusinessClaim{BusinessID: business.ID, UserID: first.ID, Role: "Owner"}))

	err := repo.CreateForBusiness(ctx, &models.BusinessClaim{BusinessID: business.ID, UserID: second.ID, Role: "Owner"})
	assert.True(t, errors.Is(err, repository.ErrBusinessAlreadyClaimed))

	count, err := repo.CountByBusinessID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var stored models.Business
	require.NoError(t, db.First(&stored, business.ID).Error)
	assert.Equal(t, first.ID, *stored.ClaimedBy)
}

func TestClaimRepository_CreateForBusiness_MissingBusiness(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewClaimRepository(db)

	err := repo.CreateForBusiness(context.Background(), &models.BusinessClaim{BusinessID: 404, UserID: 1, Role: "Owner"})
	assert.True(t, errors.Is(err, repository.ErrBusinessAlreadyClaimed))
}

func TestClaimRepository_GetByBusinessID_NotFound(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewClaimRepository(db)

	_, err := repo.GetByBusinessID(context.Background(), 99)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestClaimRepository_UpdatePayment(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	business := dbtest.SeedBusiness(t, db, "Joe's Diner")
	owner := dbtest.SeedUser(t, db, "Joe", "joe@example.com")
	repo := repository.NewClaimRepository(db)

	claim := &models.BusinessClaim{BusinessID: business.ID, UserID: owner.ID, Role: "Owner"}
	require.NoError(t, repo.CreateForBusiness(ctx, claim))

	plan := "enhanced_business_profile_monthly"
	status := "paid"
	amount := 9.99
	currency := "usd"
	sub := "sub_123"
	paid := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	claim.CurrentPlan = &plan
	claim.Payment = models.ClaimPayment{Status: &status, AmountPaid: &amount, Currency: &currency, ExternalSubscriptionID: &sub, PaidDate: &paid}
	require.NoError(t, repo.UpdatePayment(ctx, claim))
	// same values again
	require.NoError(t, repo.UpdatePayment(ctx, claim))

	loaded, err := repo.GetByBusinessID(ctx, business.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CurrentPlan)
	assert.Equal(t, plan, *loaded.CurrentPlan)
	require.True(t, loaded.HasPayment())
	assert.Equal(t, "paid", *loaded.Payment.Status)
	assert.InDelta(t, 9.99, *loaded.Payment.AmountPaid, 0.001)
	assert.Equal(t, "usd", *loaded.Payment.Currency)
	assert.Equal(t, "sub_123", *loaded.Payment.ExternalSubscriptionID)
	assert.True(t, paid.Equal(loaded.Payment.PaidDate.UTC()))
	assert.Equal(t, "Owner", loaded.Role)
}
