package billing

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/cache"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

const (
	UpgradePlansCacheKey        = "billing:upgrade_plans"
	DefaultUpgradePlansCacheTTL = 60 * time.Second
)

// PlanCatalog serves the current catalog to clients choosing an upgrade.
// Listings are cached for ttl; a cache failure falls through to the provider.
type PlanCatalog struct {
	provider Provider
	ttl      time.Duration
}

func NewPlanCatalog(provider Provider, ttl time.Duration) *PlanCatalog {
	return &PlanCatalog{provider: provider, ttl: ttl}
}

func NewPlanCatalogFromEnv(provider Provider) *PlanCatalog {
	ttl := DefaultUpgradePlansCacheTTL
	if raw := env.GetEnv("UPGRADE_PLANS_CACHE_TTL", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			ttl = d
		} else {
			log.Warnf("billing: invalid UPGRADE_PLANS_CACHE_TTL %q, using %s", raw, ttl)
		}
	}
	return NewPlanCatalog(provider, ttl)
}

// ListUpgradePlans returns the active catalog entries with expanded product
// data.
func (c *PlanCatalog) ListUpgradePlans(ctx context.Context) ([]Price, error) {
	const op = "billing.list_upgrade_plans"
	if c.ttl > 0 {
		var cached []Price
		err := cache.GetJSON(ctx, UpgradePlansCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warnf("billing: upgrade plan cache read failed: %v", err)
		}
	}

	prices, err := c.provider.ListPrices(ctx, true)
	if err != nil {
		return nil, asExternal(op, err)
	}
	prices = ActivePrices(prices)

	if c.ttl > 0 {
		if err := cache.SetJSON(ctx, UpgradePlansCacheKey, prices, c.ttl); err != nil {
			log.Warnf("billing: upgrade plan cache write failed: %v", err)
		}
	}
	return prices, nil
}

// Invalidate drops the cached listing, e.g. after a price was created.
func (c *PlanCatalog) Invalidate(ctx context.Context) {
	if err := cache.Delete(ctx, UpgradePlansCacheKey); err != nil {
		log.Warnf("billing: upgrade plan cache invalidation failed: %v", err)
	}
}
