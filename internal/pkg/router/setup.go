package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalInspire/app/controllers"
	"github.com/ManuelReschke/LocalInspire/app/repository"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers the API routes. limiterStorage may be nil.
func InstallRouter(app *fiber.App, c *controllers.Controllers, users repository.UserRepository, limiterStorage fiber.Storage) {
	setup(app, NewApiRouter(c, users, limiterStorage))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
