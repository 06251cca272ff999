package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/LocalInspire/app/controllers"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	apiv1 "github.com/ManuelReschke/LocalInspire/internal/api/v1"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/constants"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/middleware"
)

type ApiRouter struct {
	controllers *controllers.Controllers
	users       repository.UserRepository
	// limiterStorage is nil for in-memory limits.
	limiterStorage fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    h.limiterStorage,
		// provider redeliveries must never be throttled
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), constants.WebhookPath)
		},
	}), middleware.UserContextMiddleware(h.users))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group(constants.APIV1Route)
	apiServer := apiv1.NewAPIServer(h.controllers)
	apiv1.RegisterHandlers(v1, apiServer, apiv1.Middlewares{
		RequireUser:  middleware.RequireAuth,
		RequireAdmin: middleware.RequireAdmin,
	})
}

func NewApiRouter(c *controllers.Controllers, users repository.UserRepository, limiterStorage fiber.Storage) *ApiRouter {
	return &ApiRouter{controllers: c, users: users, limiterStorage: limiterStorage}
}
