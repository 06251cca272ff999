package billing_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing/billingtest"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/claims"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/database/dbtest"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type webhookFixture struct {
	db         *gorm.DB
	provider   *billingtest.FakeProvider
	reconciler *billing.WebhookReconciler
	claims     repository.ClaimRepository
	businessID uint
}

func newWebhookFixture(t *testing.T, withEventLog bool) webhookFixture {
	t.Helper()
	db := dbtest.Open(t)
	business := dbtest.SeedBusiness(t, db, "Blue Bottle")
	user := dbtest.SeedUser(t, db, "Ann", "ann@example.com")
	_, err := claims.NewManagerFromDB(db).CreateClaim(context.Background(), business.ID, user.ID, claims.Details{Role: "Owner"})
	require.NoError(t, err)

	fp := billingtest.NewFakeProvider()
	fp.AddPrice(billing.Price{ID: "price_city", Nickname: "city_listing_999", UnitAmount: 999, Currency: "usd", Active: true})
	fp.AddPrice(billing.Price{ID: "price_month", Nickname: "enhanced_business_profile_monthly", UnitAmount: 999, Currency: "usd", Active: true})
	fp.AddPrice(billing.Price{ID: "price_year", Nickname: "enhanced_business_profile_yearly", UnitAmount: 9999, Currency: "usd", Active: true})

	claimRepo := repository.NewClaimRepository(db)
	var events *billing.EventLog
	if withEventLog {
		events = billing.NewEventLogFromDB(db)
	}
	r := billing.NewWebhookReconciler(fp, claimRepo, events)
	r.SetClock(func() time.Time { return fixedNow })

	return webhookFixture{db: db, provider: fp, reconciler: r, claims: claimRepo, businessID: business.ID}
}

func (f webhookFixture) ref() string {
	return strconv.FormatUint(uint64(f.businessID), 10)
}

func (f webhookFixture) deliver(t *testing.T, body []byte) (*billing.WebhookResult, error) {
	t.Helper()
	return f.reconciler.HandleWebhookEvent(context.Background(), body, billingtest.SignPayload(body, billingtest.WebhookSecret))
}

func (f webhookFixture) claim(t *testing.T) *models.BusinessClaim {
	t.Helper()
	c, err := f.claims.GetByBusinessID(context.Background(), f.businessID)
	require.NoError(t, err)
	return c
}

func TestHandleWebhookEvent_CheckoutCompletedSetsPlanAndPayment(t *testing.T) {
	f := newWebhookFixture(t, true)
	body := billingtest.EventPayload(t, "evt_1", billing.EventCheckoutSessionCompleted,
		billingtest.CheckoutCompleted("cs_1", f.ref(), 999, "usd", "sub_123"))

	res, err := f.deliver(t, body)
	require.NoError(t, err)
	assert.True(t, res.Handled)
	assert.False(t, res.Duplicate)
	assert.Equal(t, "evt_1", res.EventID)

	c := f.claim(t)
	require.NotNil(t, c.CurrentPlan)
	assert.Equal(t, "enhanced_business_profile_monthly", *c.CurrentPlan)
	require.True(t, c.HasPayment())
	assert.Equal(t, "paid", *c.Payment.Status)
	assert.InDelta(t, 9.99, *c.Payment.AmountPaid, 0.0001)
	assert.Equal(t, "usd", *c.Payment.Currency)
	assert.Equal(t, "sub_123", *c.Payment.ExternalSubscriptionID)
	assert.True(t, fixedNow.Equal(*c.Payment.PaidDate))
}

func TestHandleWebhookEvent_DuplicateDeliveryIsIdempotent(t *testing.T) {
	for _, withLog := range []bool{true, false} {
		t.Run("event log "+strconv.FormatBool(withLog), func(t *testing.T) {
			f := newWebhookFixture(t, withLog)
			body := billingtest.EventPayload(t, "evt_dup", billing.EventCheckoutSessionCompleted,
				billingtest.CheckoutCompleted("cs_dup", f.ref(), 9999, "usd", "sub_9"))

			_, err := f.deliver(t, body)
			require.NoError(t, err)
			first := f.claim(t)

			res, err := f.deliver(t, body)
			require.NoError(t, err)
			assert.Equal(t, withLog, res.Duplicate)
			second := f.claim(t)

			assert.Equal(t, *first.CurrentPlan, *second.CurrentPlan)
			assert.Equal(t, "enhanced_business_profile_yearly", *second.CurrentPlan)
			assert.Equal(t, *first.Payment.Status, *second.Payment.Status)
			assert.Equal(t, *first.Payment.AmountPaid, *second.Payment.AmountPaid)
			assert.Equal(t, *first.Payment.Currency, *second.Payment.Currency)
			assert.Equal(t, *first.Payment.ExternalSubscriptionID, *second.Payment.ExternalSubscriptionID)
			assert.True(t, first.Payment.PaidDate.Equal(*second.Payment.PaidDate))
		})
	}
}

func TestHandleWebhookEvent_RejectsBadSignatures(t *testing.T) {
	f := newWebhookFixture(t, true)
	body := billingtest.EventPayload(t, "evt_bad", billing.EventCheckoutSessionCompleted,
		billingtest.CheckoutCompleted("cs_bad", f.ref(), 999, "usd", "sub_1"))
	validSig := billingtest.SignPayload(body, billingtest.WebhookSecret)

	tampered := append([]byte(nil), body...)
	tampered[len(tampered)-2] = ' '

	tests := []struct {
		name string
		body []byte
		sig  string
	}{
		{name: "tampered body", body: tampered, sig: validSig},
		{name: "wrong secret", body: body, sig: billingtest.SignPayload(body, "whsec_other")},
		{name: "missing header", body: body, sig: ""},
		{name: "garbage header", body: body, sig: "t=1,v1=deadbeef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reconciler.HandleWebhookEvent(context.Background(), tt.body, tt.sig)
			assert.True(t, apperrors.Is(err, apperrors.KindSecurity), "%v", err)
		})
	}

	c := f.claim(t)
	assert.Nil(t, c.CurrentPlan)
	assert.False(t, c.HasPayment())

	var logged int64
	require.NoError(t, f.db.Model(&models.PaymentWebhookEvent{}).Count(&logged).Error)
	assert.Zero(t, logged)
}

func TestHandleWebhookEvent_UnknownAndLifecycleTypesAreAcknowledged(t *testing.T) {
	f := newWebhookFixture(t, true)

	res, err := f.deliver(t, billingtest.EventPayload(t, "evt_unknown", "invoice.finalized", map[string]interface{}{"id": "in_1"}))
	require.NoError(t, err)
	assert.False(t, res.Handled)

	for i, typ := range []string{
		billing.EventSubscriptionCreated,
		billing.EventSubscriptionUpdated,
		billing.EventSubscriptionTrialWillEnd,
		billing.EventSubscriptionDeleted,
	} {
		res, err := f.deliver(t, billingtest.EventPayload(t, "evt_life_"+strconv.Itoa(i), typ, map[string]interface{}{"id": "sub_1"}))
		require.NoError(t, err, typ)
		assert.True(t, res.Handled, typ)
	}

	assert.False(t, f.claim(t).HasPayment())
}

func TestHandleWebhookEvent_HandledFailuresAreReturned(t *testing.T) {
	t.Run("malformed client reference", func(t *testing.T) {
		f := newWebhookFixture(t, true)
		body := billingtest.EventPayload(t, "evt_ref", billing.EventCheckoutSessionCompleted,
			billingtest.CheckoutCompleted("cs_ref", "not-a-number", 999, "usd", "sub_1"))
		_, err := f.deliver(t, body)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation), "%v", err)

		var stored models.PaymentWebhookEvent
		require.NoError(t, f.db.Where("provider_event_id = ?", "evt_ref").First(&stored).Error)
		assert.NotEmpty(t, stored.ProcessingError)
		assert.True(t, stored.PermanentFailure)
		assert.False(t, f.claim(t).HasPayment())
	})

	t.Run("claim missing then retried", func(t *testing.T) {
		f := newWebhookFixture(t, true)
		other := dbtest.SeedBusiness(t, f.db, "Late Claim")
		ref := strconv.FormatUint(uint64(other.ID), 10)
		body := billingtest.EventPayload(t, "evt_late", billing.EventCheckoutSessionCompleted,
			billingtest.CheckoutCompleted("cs_late", ref, 999, "usd", "sub_late"))

		_, err := f.deliver(t, body)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound), "%v", err)

		var stored models.PaymentWebhookEvent
		require.NoError(t, f.db.Where("provider_event_id = ?", "evt_late").First(&stored).Error)
		assert.NotNil(t, stored.ProcessedAt)
		assert.NotEmpty(t, stored.ProcessingError)
		assert.False(t, stored.PermanentFailure)

		user := dbtest.SeedUser(t, f.db, "Cy", "cy@example.com")
		_, err = claims.NewManagerFromDB(f.db).CreateClaim(context.Background(), other.ID, user.ID, claims.Details{Role: "Owner"})
		require.NoError(t, err)

		res, err := f.deliver(t, body)
		require.NoError(t, err)
		assert.False(t, res.Duplicate)

		c, err := f.claims.GetByBusinessID(context.Background(), other.ID)
		require.NoError(t, err)
		require.NotNil(t, c.CurrentPlan)
		assert.Equal(t, "enhanced_business_profile_monthly", *c.CurrentPlan)

		require.NoError(t, f.db.Where("provider_event_id = ?", "evt_late").First(&stored).Error)
		assert.Empty(t, stored.ProcessingError)
	})
}

func TestAcknowledgeClaimPayment_UnknownAmountKeepsPlan(t *testing.T) {
	f := newWebhookFixture(t, false)
	_, err := f.deliver(t, billingtest.EventPayload(t, "evt_a", billing.EventCheckoutSessionCompleted,
		billingtest.CheckoutCompleted("cs_a", f.ref(), 999, "usd", "sub_a")))
	require.NoError(t, err)

	_, err = f.deliver(t, billingtest.EventPayload(t, "evt_b", billing.EventCheckoutSessionCompleted,
		billingtest.CheckoutCompleted("cs_b", f.ref(), 4321, "usd", "sub_b")))
	require.NoError(t, err)

	c := f.claim(t)
	require.NotNil(t, c.CurrentPlan)
	assert.Equal(t, "enhanced_business_profile_monthly", *c.CurrentPlan)
	assert.InDelta(t, 43.21, *c.Payment.AmountPaid, 0.0001)
	assert.Equal(t, "sub_b", *c.Payment.ExternalSubscriptionID)
}

func TestAcknowledgeClaimPayment_ExpandedSubscription(t *testing.T) {
	f := newWebhookFixture(t, false)
	session := billingtest.CheckoutCompleted("cs_x", f.ref(), 999, "usd", "")
	session["subscription"] = map[string]interface{}{"id": "sub_expanded", "object": "subscription"}

	_, err := f.deliver(t, billingtest.EventPayload(t, "evt_x", billing.EventCheckoutSessionCompleted, session))
	require.NoError(t, err)
	assert.Equal(t, "sub_expanded", *f.claim(t).Payment.ExternalSubscriptionID)
}

func TestHandle_OverridesDispatch(t *testing.T) {
	f := newWebhookFixture(t, false)
	var seen string
	f.reconciler.Handle("invoice.paid", func(_ context.Context, ev *billing.Event) error {
		seen = ev.ID
		return nil
	})

	res, err := f.deliver(t, billingtest.EventPayload(t, "evt_inv", "invoice.paid", map[string]interface{}{"id": "in_1"}))
	require.NoError(t, err)
	assert.True(t, res.Handled)
	assert.Equal(t, "evt_inv", seen)
}
