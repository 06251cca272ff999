package billing

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

// ClaimLookup loads the claim a checkout is created for.
type ClaimLookup interface {
	GetClaim(ctx context.Context, businessID uint) (*models.BusinessClaim, error)
}

type CheckoutRequest struct {
	BusinessID uint
	PriceID    string
	// ReturnURL and CancelURL are paths relative to the front-end base URL.
	ReturnURL     string
	CancelURL     string
	UserID        uint
	CustomerEmail string
}

// CheckoutBuilder validates a plan choice against the live catalog and asks
// the provider for a hosted subscription checkout. It writes no local state.
type CheckoutBuilder struct {
	provider    Provider
	claims      ClaimLookup
	frontendURL func() (string, error)
}

func NewCheckoutBuilder(provider Provider, claims ClaimLookup, frontendURL func() (string, error)) *CheckoutBuilder {
	if frontendURL == nil {
		frontendURL = env.FrontendURL
	}
	return &CheckoutBuilder{provider: provider, claims: claims, frontendURL: frontendURL}
}

func (b *CheckoutBuilder) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	const op = "billing.create_checkout_session"
	returnPath := strings.TrimSpace(req.ReturnURL)
	if returnPath == "" {
		return nil, apperrors.Validation(op, "returnUrl is required")
	}
	if err := checkRelativePath(op, "returnUrl", returnPath); err != nil {
		return nil, err
	}
	cancelPath := strings.TrimSpace(req.CancelURL)
	if cancelPath != "" {
		if err := checkRelativePath(op, "cancelUrl", cancelPath); err != nil {
			return nil, err
		}
	}

	priceID := strings.TrimSpace(req.PriceID)
	if priceID == "" {
		return nil, apperrors.Validation(op, "priceId is required")
	}
	prices, err := b.provider.ListPrices(ctx, true)
	if err != nil {
		return nil, asExternal(op, err)
	}
	if !containsPrice(prices, priceID) {
		return nil, apperrors.Validation(op, "Invalid price id")
	}

	claim, err := b.claims.GetClaim(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	base, err := b.frontendURL()
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" && claim.User != nil {
		email = claim.User.Email
	}
	userID := req.UserID
	if userID == 0 {
		userID = claim.UserID
	}

	params := CheckoutSessionParams{
		PriceID:           priceID,
		ClientReferenceID: strconv.FormatUint(uint64(req.BusinessID), 10),
		CustomerEmail:     email,
		SuccessURL:        joinURL(base, returnPath),
		Metadata: map[string]string{
			"business_id": strconv.FormatUint(uint64(req.BusinessID), 10),
			"user_id":     strconv.FormatUint(uint64(userID), 10),
		},
	}
	if cancelPath != "" {
		params.CancelURL = joinURL(base, cancelPath)
	}

	sess, err := b.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, asExternal(op, err)
	}
	log.Infof("billing: checkout session %s created for business %d (price %s)", sess.ID, req.BusinessID, priceID)
	return sess, nil
}

func containsPrice(prices []Price, id string) bool {
	for _, p := range prices {
		if p.ID == id && p.Active {
			return true
		}
	}
	return false
}

// checkRelativePath rejects absolute URLs so a checkout can only redirect back
// to the configured front end.
func checkRelativePath(op, field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return apperrors.Validation(op, field+" must be a path on the front end")
	}
	return nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
