package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/usercontext"
)

const stripeSignatureHeader = "Stripe-Signature"

type BillingController struct {
	checkout *billing.CheckoutBuilder
	plans    *billing.PlanCatalog
	webhooks *billing.WebhookReconciler
}

func NewBillingController(checkout *billing.CheckoutBuilder, plans *billing.PlanCatalog, webhooks *billing.WebhookReconciler) *BillingController {
	return &BillingController{checkout: checkout, plans: plans, webhooks: webhooks}
}

func (bc *BillingController) HandleListUpgradePlans(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	plans, err := bc.plans.ListUpgradePlans(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": STATUS_SUCCESS, "plans": plans})
}

// HandleCreateCheckoutSession creates a hosted checkout for the business's
// claim: ?priceId=&returnUrl=&cancelUrl=
func (bc *BillingController) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	user := usercontext.GetUserContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	sess, err := bc.checkout.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		BusinessID:    businessID,
		PriceID:       c.Query("priceId"),
		ReturnURL:     c.Query("returnUrl"),
		CancelURL:     c.Query("cancelUrl"),
		UserID:        user.UserID,
		CustomerEmail: user.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": STATUS_SUCCESS, "session": sess})
}

// HandlePaymentWebhook receives provider events. Any failure after the
// signature was accepted is a 500 so the provider redelivers.
func (bc *BillingController) HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	ctx, cancel := requestContext()
	defer cancel()

	res, err := bc.webhooks.HandleWebhookEvent(ctx, rawBody, c.Get(stripeSignatureHeader))
	if err != nil {
		if apperrors.Is(err, apperrors.KindSecurity) {
			return respondErrorStatus(c, fiber.StatusBadRequest, err)
		}
		return respondErrorStatus(c, fiber.StatusInternalServerError, err)
	}

	out := fiber.Map{"received": true}
	if res.Duplicate {
		out["duplicate"] = true
	}
	return c.JSON(out)
}
