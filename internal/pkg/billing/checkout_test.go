package billing_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing/billingtest"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/claims"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/database/dbtest"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

type checkoutFixture struct {
	provider   *billingtest.FakeProvider
	builder    *billing.CheckoutBuilder
	businessID uint
	userID     uint
}

func newCheckoutFixture(t *testing.T, frontend func() (string, error)) checkoutFixture {
	t.Helper()
	db := dbtest.Open(t)
	business := dbtest.SeedBusiness(t, db, "Blue Bottle")
	user := dbtest.SeedUser(t, db, "Ann", "ann@example.com")
	mgr := claims.NewManagerFromDB(db)
	_, err := mgr.CreateClaim(context.Background(), business.ID, user.ID, claims.Details{Role: "Owner"})
	require.NoError(t, err)

	fp := billingtest.NewFakeProvider()
	fp.AddPrice(billing.Price{ID: "price_month", Nickname: "enhanced_business_profile_monthly", UnitAmount: 999, Currency: "usd", Active: true})
	fp.AddPrice(billing.Price{ID: "price_archived", Nickname: "enhanced_business_profile_yearly", UnitAmount: 9999, Currency: "usd", Active: false})

	if frontend == nil {
		frontend = func() (string, error) { return "https://app.example.test/", nil }
	}
	return checkoutFixture{
		provider:   fp,
		builder:    billing.NewCheckoutBuilder(fp, mgr, frontend),
		businessID: business.ID,
		userID:     user.ID,
	}
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	f := newCheckoutFixture(t, nil)

	sess, err := f.builder.CreateCheckoutSession(context.Background(), billing.CheckoutRequest{
		BusinessID: f.businessID,
		PriceID:    "price_month",
		ReturnURL:  "/claim/success",
		CancelURL:  "claim/cancel",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.URL)
	assert.Equal(t, "price_month", sess.PriceID)

	sent := f.provider.Sessions()
	require.Len(t, sent, 1)
	assert.Equal(t, "https://app.example.test/claim/success", sent[0].SuccessURL)
	assert.Equal(t, "https://app.example.test/claim/cancel", sent[0].CancelURL)
	assert.Equal(t, "ann@example.com", sent[0].CustomerEmail)
	assert.Equal(t, sent[0].ClientReferenceID, sent[0].Metadata["business_id"])
	assert.Equal(t, strconv.FormatUint(uint64(f.userID), 10), sent[0].Metadata["user_id"])
}

func TestCreateCheckoutSession_ClientReferenceIsBusinessID(t *testing.T) {
	f := newCheckoutFixture(t, nil)

	_, err := f.builder.CreateCheckoutSession(context.Background(), billing.CheckoutRequest{
		BusinessID: f.businessID, PriceID: "price_month", ReturnURL: "/done", CustomerEmail: "billing@bluebottle.test",
	})
	require.NoError(t, err)

	sent := f.provider.Sessions()
	require.Len(t, sent, 1)
	assert.Equal(t, strconv.FormatUint(uint64(f.businessID), 10), sent[0].ClientReferenceID)
	assert.Equal(t, "billing@bluebottle.test", sent[0].CustomerEmail)
	assert.Empty(t, sent[0].CancelURL)
}

func TestCreateCheckoutSession_Validation(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, nil)

	tests := []struct {
		name string
		req  billing.CheckoutRequest
	}{
		{name: "unknown price with valid return url", req: billing.CheckoutRequest{BusinessID: f.businessID, PriceID: "price_nope", ReturnURL: "/ok"}},
		{name: "archived price", req: billing.CheckoutRequest{BusinessID: f.businessID, PriceID: "price_archived", ReturnURL: "/ok"}},
		{name: "missing return url with valid price", req: billing.CheckoutRequest{BusinessID: f.businessID, PriceID: "price_month"}},
		{name: "blank return url", req: billing.CheckoutRequest{BusinessID: f.businessID, PriceID: "price_month", ReturnURL: "   "}},
		{name: "missing price", req: billing.CheckoutRequest{BusinessID: f.businessID, ReturnURL: "/ok"}},
		{name: "absolute return url", req: billing.CheckoutRequest{BusinessID: f.businessID, PriceID: "price_month", ReturnURL: "https://evil.test/x"}},
		{name: "protocol-relative cancel url", req: billing.CheckoutRequest{BusinessID: f.businessID, PriceID: "price_month", ReturnURL: "/ok", CancelURL: "//evil.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.builder.CreateCheckoutSession(ctx, tt.req)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation), "%v", err)
		})
	}
	assert.Empty(t, f.provider.Sessions())
}

func TestCreateCheckoutSession_NoClaim(t *testing.T) {
	f := newCheckoutFixture(t, nil)

	_, err := f.builder.CreateCheckoutSession(context.Background(), billing.CheckoutRequest{
		BusinessID: f.businessID + 100, PriceID: "price_month", ReturnURL: "/ok",
	})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound), "%v", err)
	assert.Empty(t, f.provider.Sessions())
}

func TestCreateCheckoutSession_FrontendNotConfigured(t *testing.T) {
	f := newCheckoutFixture(t, func() (string, error) {
		return "", env.ErrFrontendURLNotConfigured
	})

	_, err := f.builder.CreateCheckoutSession(context.Background(), billing.CheckoutRequest{
		BusinessID: f.businessID, PriceID: "price_month", ReturnURL: "/ok",
	})
	assert.ErrorIs(t, err, env.ErrFrontendURLNotConfigured)
	assert.Equal(t, apperrors.Kind(""), apperrors.KindOf(err))
	assert.Empty(t, f.provider.Sessions())
}

func TestCreateCheckoutSession_ProviderFailure(t *testing.T) {
	f := newCheckoutFixture(t, nil)
	f.provider.Err = errors.New("provider down")

	_, err := f.builder.CreateCheckoutSession(context.Background(), billing.CheckoutRequest{
		BusinessID: f.businessID, PriceID: "price_month", ReturnURL: "/ok",
	})
	assert.True(t, apperrors.Is(err, apperrors.KindExternalService), "%v", err)
}
