package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
)

// expandableID decodes a reference that is either an id string or an
// expanded object carrying an id.
type expandableID string

func (e *expandableID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*e = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = expandableID(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*e = expandableID(obj.ID)
	return nil
}

type checkoutSessionPayload struct {
	ID                string       `json:"id"`
	ClientReferenceID string       `json:"client_reference_id"`
	AmountSubtotal    *int64       `json:"amount_subtotal"`
	AmountTotal       *int64       `json:"amount_total"`
	Currency          string       `json:"currency"`
	PaymentStatus     string       `json:"payment_status"`
	Subscription      expandableID `json:"subscription"`
}

func (p checkoutSessionPayload) amount() int64 {
	if p.AmountSubtotal != nil {
		return *p.AmountSubtotal
	}
	if p.AmountTotal != nil {
		return *p.AmountTotal
	}
	return 0
}

// AcknowledgeClaimPayment records a completed checkout on the claim of the
// business named by the session's client_reference_id. Payment fields are
// overwritten, so applying the same session twice leaves the same state.
func (r *WebhookReconciler) AcknowledgeClaimPayment(ctx context.Context, ev *Event) error {
	const op = "billing.acknowledge_claim_payment"
	var session checkoutSessionPayload
	if err := json.Unmarshal(ev.Data, &session); err != nil {
		return apperrors.Validation(op, "malformed checkout session payload: "+err.Error())
	}

	ref := strings.TrimSpace(session.ClientReferenceID)
	businessID, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || businessID == 0 {
		return apperrors.Validation(op, "checkout session "+session.ID+" has no valid client_reference_id")
	}

	claim, err := r.claims.GetByBusinessID(ctx, uint(businessID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(op, "No claim exists for business "+ref)
		}
		return apperrors.Persistence(op, err)
	}

	amount := session.amount()
	prices, err := r.provider.ListPrices(ctx, true)
	if err != nil {
		return asExternal(op, err)
	}
	if plan, price, ok := MatchPaidPlan(prices, amount, session.Currency); ok {
		if plan.UnitAmount != price.UnitAmount {
			log.Warnf("billing: catalog entry %s (%s) charges %d, plan table expects %d", price.ID, plan.Nickname, price.UnitAmount, plan.UnitAmount)
		}
		nickname := plan.Nickname
		claim.CurrentPlan = &nickname
	} else {
		log.Warnf("billing: no plan matches amount %d %s for business %d, keeping current plan", amount, session.Currency, businessID)
	}

	status := session.PaymentStatus
	paid := FromMinorUnits(amount)
	currency := strings.ToLower(session.Currency)
	subscriptionID := string(session.Subscription)
	paidAt := r.now()

	claim.Payment.Status = &status
	claim.Payment.AmountPaid = &paid
	claim.Payment.Currency = &currency
	claim.Payment.ExternalSubscriptionID = &subscriptionID
	claim.Payment.PaidDate = &paidAt

	if err := r.claims.UpdatePayment(ctx, claim); err != nil {
		return apperrors.Persistence(op, err)
	}
	log.Infof("billing: payment %s recorded for business %d (session %s)", status, businessID, session.ID)
	return nil
}
