package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/claims"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/usercontext"
)

type ClaimController struct {
	claims *claims.Manager
}

func NewClaimController(m *claims.Manager) *ClaimController {
	return &ClaimController{claims: m}
}

// HandleCreateClaim claims the business for the authenticated user.
func (cc *ClaimController) HandleCreateClaim(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var details claims.Details
	if err := c.BodyParser(&details); err != nil {
		return respondError(c, apperrors.Validation("controllers.create_claim", "invalid request body"))
	}

	ctx, cancel := requestContext()
	defer cancel()

	claim, err := cc.claims.CreateClaim(ctx, businessID, usercontext.GetUserID(c), details)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": STATUS_SUCCESS,
		"claim":  claim,
	})
}

// HandleGetClaim returns the claim of a business, or a null claim.
func (cc *ClaimController) HandleGetClaim(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext()
	defer cancel()

	claim, err := cc.claims.GetClaim(ctx, businessID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return c.JSON(fiber.Map{"status": STATUS_SUCCESS, "claim": nil})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": STATUS_SUCCESS, "claim": claim})
}
