package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep behavior consistent
	"github.com/ManuelReschke/LocalInspire/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct {
	controllers *controllers.Controllers
}

// NewAPIServer creates a new API server instance
func NewAPIServer(c *controllers.Controllers) *APIServer {
	return &APIServer{controllers: c}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (s *APIServer) PostBusinessClaim(c *fiber.Ctx) error {
	return s.controllers.Claims.HandleCreateClaim(c)
}

func (s *APIServer) GetBusinessClaim(c *fiber.Ctx) error {
	return s.controllers.Claims.HandleGetClaim(c)
}

func (s *APIServer) GetClaimCheckoutSession(c *fiber.Ctx) error {
	return s.controllers.Billing.HandleCreateCheckoutSession(c)
}

func (s *APIServer) GetUpgradePlans(c *fiber.Ctx) error {
	return s.controllers.Billing.HandleListUpgradePlans(c)
}

// PostPaymentWebhook is authenticated by the provider signature, not by the
// user context.
func (s *APIServer) PostPaymentWebhook(c *fiber.Ctx) error {
	return s.controllers.Billing.HandlePaymentWebhook(c)
}

func (s *APIServer) PatchCity(c *fiber.Ctx) error {
	return s.controllers.Cities.HandleUpdateCity(c)
}

func (s *APIServer) PatchCityToggleFeatured(c *fiber.Ctx) error {
	return s.controllers.Cities.HandleToggleFeatured(c)
}
