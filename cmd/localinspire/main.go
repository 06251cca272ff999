package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/LocalInspire/app/controllers"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/cache"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/constants"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/database"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/ratelimit"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	if _, err := env.FrontendURL(); err != nil {
		log.Printf("Warning: %v; checkout sessions will fail", err)
	}

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/localinspire to project root
		"../../../", // Fallback
	}

	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get(constants.MetricsPath, basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsRoute,
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	repository.InitializeFactory(database.GetDB())
	repos := repository.GetGlobalRepositories()
	provider := billing.NewStripeProviderFromEnv()
	router.InstallRouter(app, controllers.NewControllers(database.GetDB(), repos, provider), repos.User, ratelimit.NewStorage())

	return app
}
