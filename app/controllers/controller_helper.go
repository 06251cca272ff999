package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
)

const (
	STATUS_SUCCESS = "SUCCESS"
	STATUS_FAIL    = "FAIL"
	STATUS_ERROR   = "ERROR"

	requestTimeout = 15 * time.Second
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// respondError writes err as {status, msg}. Client errors are FAIL, server
// errors are ERROR and get logged with their cause.
func respondError(c *fiber.Ctx, err error) error {
	return respondErrorStatus(c, apperrors.HTTPStatus(err), err)
}

func respondErrorStatus(c *fiber.Ctx, status int, err error) error {
	label := STATUS_FAIL
	if status >= fiber.StatusInternalServerError {
		label = STATUS_ERROR
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"status": label,
		"msg":    apperrors.Message(err),
	})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("controllers.params", "invalid "+name)
	}
	return uint(id), nil
}
