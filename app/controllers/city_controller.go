package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/cities"
)

type CityController struct {
	cities *cities.Service
}

func NewCityController(s *cities.Service) *CityController {
	return &CityController{cities: s}
}

// HandleUpdateCity applies an admin update. A numeric "price" is turned into a
// catalog entry and stored as the city's structured price.
func (cc *CityController) HandleUpdateCity(c *fiber.Ctx) error {
	cityID, err := parseIDParam(c, "cityId")
	if err != nil {
		return respondError(c, err)
	}

	var in cities.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, apperrors.Validation("controllers.update_city", "invalid request body"))
	}

	ctx, cancel := requestContext()
	defer cancel()

	city, err := cc.cities.UpdateCity(ctx, cityID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": STATUS_SUCCESS, "city": city})
}

func (cc *CityController) HandleToggleFeatured(c *fiber.Ctx) error {
	cityID, err := parseIDParam(c, "cityId")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext()
	defer cancel()

	city, err := cc.cities.ToggleFeatured(ctx, cityID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": STATUS_SUCCESS, "city": city})
}
