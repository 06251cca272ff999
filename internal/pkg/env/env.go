package env

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var Env map[string]string

// ErrFrontendURLNotConfigured is returned when no front-end base URL is mapped
// for the current APP_ENV.
var ErrFrontendURLNotConfigured = errors.New("frontend url not configured")

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/localinspire to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return
		}
	}

	panic("No .env file found in any of the expected locations")
}

// AppEnv returns the normalized deployment environment name.
func AppEnv() string {
	return strings.ToLower(strings.TrimSpace(GetEnv("APP_ENV", "prod")))
}

func IsDev() bool {
	return AppEnv() == "dev"
}

// FrontendURL resolves the front-end base URL for the current deployment
// environment. Redirect URLs are built on top of it, so a missing mapping is an
// error rather than an empty prefix.
func FrontendURL() (string, error) {
	appEnv := AppEnv()
	key := frontendURLKey(appEnv)
	base := strings.TrimRight(strings.TrimSpace(GetEnv(key, "")), "/")
	if base == "" {
		return "", fmt.Errorf("%w: %s is empty (APP_ENV=%q)", ErrFrontendURLNotConfigured, key, appEnv)
	}
	return base, nil
}

func frontendURLKey(appEnv string) string {
	switch appEnv {
	case "dev", "development":
		return "FRONTEND_URL_DEV"
	case "prod", "production":
		return "FRONTEND_URL_PROD"
	default:
		return "FRONTEND_URL_" + strings.ToUpper(appEnv)
	}
}
