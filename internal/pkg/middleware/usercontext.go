package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the user named by the identity gateway's
// X-User-ID header and stores the user context for every request. Requests
// without the header, or naming an unknown or inactive user, are anonymous.
func UserContextMiddleware(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(usercontext.HeaderUserID))
		if raw == "" {
			usercontext.SetUserContext(c, usercontext.UserContext{})
			return c.Next()
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			log.Warnf("usercontext: ignoring malformed %s header %q", usercontext.HeaderUserID, raw)
			usercontext.SetUserContext(c, usercontext.UserContext{})
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		user, err := users.GetByID(ctx, uint(id))
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Errorf("usercontext: user lookup %d failed: %v", id, err)
			}
			usercontext.SetUserContext(c, usercontext.UserContext{})
			return c.Next()
		}
		if user.Status != models.STATUS_ACTIVE {
			usercontext.SetUserContext(c, usercontext.UserContext{})
			return c.Next()
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     user.ID,
			Username:   user.FullName(),
			Email:      user.Email,
			IsLoggedIn: true,
			IsAdmin:    user.IsAdmin(),
		})
		return c.Next()
	}
}
