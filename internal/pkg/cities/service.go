// Package cities implements the admin updates of city listings, including the
// catalog price a city listing is sold at.
package cities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/models"
	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

const (
	ListingNicknamePrefix     = "city_listing"
	DefaultListingProductName = "City Listing"
)

type PriceResolver interface {
	ResolveOrCreatePrice(ctx context.Context, req billing.PriceRequest) (*billing.Resolution, error)
}

// CatalogCache is notified when a new catalog entry was created.
type CatalogCache interface {
	Invalidate(ctx context.Context)
}

// UpdateInput holds the updatable city fields. Nil fields are left unchanged.
type UpdateInput struct {
	Name       *string  `json:"name"`
	StateCode  *string  `json:"stateCode"`
	StateName  *string  `json:"stateName"`
	ImgURL     *string  `json:"imgUrl"`
	IsFeatured *bool    `json:"isFeatured"`
	Price      *float64 `json:"price"`
}

type Service struct {
	cities      repository.CityRepository
	prices      PriceResolver
	catalog     CatalogCache
	productName string
}

func NewService(cities repository.CityRepository, prices PriceResolver, catalog CatalogCache, productName string) *Service {
	if strings.TrimSpace(productName) == "" {
		productName = DefaultListingProductName
	}
	return &Service{cities: cities, prices: prices, catalog: catalog, productName: productName}
}

func NewServiceFromEnv(cities repository.CityRepository, prices PriceResolver, catalog CatalogCache) *Service {
	return NewService(cities, prices, catalog, env.GetEnv("CITY_LISTING_PRODUCT_NAME", DefaultListingProductName))
}

// UpdateCity applies in to the city. When a price is given it is resolved to a
// catalog entry first; the city is only written once that succeeded.
func (s *Service) UpdateCity(ctx context.Context, id uint, in UpdateInput) (*models.City, error) {
	const op = "cities.update"
	city, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		city.Name = strings.TrimSpace(*in.Name)
	}
	if in.StateCode != nil {
		city.StateCode = strings.ToUpper(strings.TrimSpace(*in.StateCode))
	}
	if in.StateName != nil {
		city.StateName = strings.TrimSpace(*in.StateName)
	}
	if in.ImgURL != nil {
		city.ImgURL = strings.TrimSpace(*in.ImgURL)
		if city.ImgURL == "" {
			city.ImgURL = models.DefaultCityImgURL
		}
	}
	if in.IsFeatured != nil {
		city.IsFeatured = *in.IsFeatured
	}
	if err := city.Validate(); err != nil {
		return nil, apperrors.Validation(op, err.Error())
	}

	if in.Price != nil {
		if s.prices == nil {
			return nil, apperrors.ExternalService(op, errors.New("no payment provider configured"))
		}
		res, err := s.prices.ResolveOrCreatePrice(ctx, billing.PriceRequest{
			Amount:         *in.Price,
			NicknamePrefix: ListingNicknamePrefix,
			Match:          billing.ProductNamed(s.productName),
		})
		if err != nil {
			return nil, err
		}
		city.Price = models.CityPrice{
			Amount:                billing.FromMinorUnits(res.Price.UnitAmount),
			Currency:              strings.ToLower(res.Price.Currency),
			ExternalPriceID:       res.Price.ID,
			ExternalPriceNickname: res.Price.Nickname,
		}
		if res.Created && s.catalog != nil {
			s.catalog.Invalidate(ctx)
		}
	}

	if err := s.cities.Update(ctx, city); err != nil {
		return nil, apperrors.Persistence(op, err)
	}
	log.Infof("cities: city %d updated", city.ID)
	return city, nil
}

func (s *Service) ToggleFeatured(ctx context.Context, id uint) (*models.City, error) {
	const op = "cities.toggle_featured"
	city, err := s.cities.ToggleFeatured(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(op, fmt.Sprintf("City %d not found", id))
		}
		return nil, apperrors.Persistence(op, err)
	}
	return city, nil
}

func (s *Service) get(ctx context.Context, op string, id uint) (*models.City, error) {
	city, err := s.cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(op, fmt.Sprintf("City %d not found", id))
		}
		return nil, apperrors.Persistence(op, err)
	}
	return city, nil
}
