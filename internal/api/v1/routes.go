package apiv1

import "github.com/gofiber/fiber/v2"

// Pong is the ping response.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface lists the v1 operations documented in
// public/docs/v1/openapi.yml.
type ServerInterface interface {
	GetPing(c *fiber.Ctx) error
	PostBusinessClaim(c *fiber.Ctx) error
	GetBusinessClaim(c *fiber.Ctx) error
	GetClaimCheckoutSession(c *fiber.Ctx) error
	GetUpgradePlans(c *fiber.Ctx) error
	PostPaymentWebhook(c *fiber.Ctx) error
	PatchCity(c *fiber.Ctx) error
	PatchCityToggleFeatured(c *fiber.Ctx) error
}

// Middlewares guard the routes that need a user or an admin.
type Middlewares struct {
	RequireUser  fiber.Handler
	RequireAdmin fiber.Handler
}

// Route is one registered operation, in OpenAPI path syntax.
type Route struct {
	Method string
	Path   string
}

// Routes returns every operation RegisterHandlers installs.
func Routes() []Route {
	return []Route{
		{fiber.MethodGet, "/ping"},
		{fiber.MethodPost, "/businesses/{id}/claims"},
		{fiber.MethodGet, "/businesses/{id}/claims"},
		{fiber.MethodGet, "/businesses/{id}/claims/checkout-session"},
		{fiber.MethodGet, "/upgrade-plans"},
		{fiber.MethodPost, "/webhooks/payment"},
		{fiber.MethodPatch, "/cities/{cityId}"},
		{fiber.MethodPatch, "/cities/{cityId}/toggle-featured"},
	}
}

func RegisterHandlers(router fiber.Router, si ServerInterface, mw Middlewares) {
	user := orNext(mw.RequireUser)
	admin := orNext(mw.RequireAdmin)

	router.Get("/ping", si.GetPing)
	router.Post("/businesses/:id/claims", user, si.PostBusinessClaim)
	router.Get("/businesses/:id/claims", si.GetBusinessClaim)
	router.Get("/businesses/:id/claims/checkout-session", user, si.GetClaimCheckoutSession)
	router.Get("/upgrade-plans", si.GetUpgradePlans)
	router.Post("/webhooks/payment", si.PostPaymentWebhook)
	router.Patch("/cities/:cityId", admin, si.PatchCity)
	router.Patch("/cities/:cityId/toggle-featured", admin, si.PatchCityToggleFeatured)
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
