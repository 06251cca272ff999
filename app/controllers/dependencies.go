package controllers

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalInspire/app/repository"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/billing"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/cities"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/claims"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

// Controllers bundles the API controllers sharing one set of services.
type Controllers struct {
	Claims  *ClaimController
	Billing *BillingController
	Cities  *CityController
}

// NewControllers wires the services on top of repos and provider.
func NewControllers(db *gorm.DB, repos *repository.Repositories, provider billing.Provider) *Controllers {
	manager := claims.NewManager(repos.Business, repos.Claim)
	plans := billing.NewPlanCatalogFromEnv(provider)

	return &Controllers{
		Claims: NewClaimController(manager),
		Billing: NewBillingController(
			billing.NewCheckoutBuilder(provider, manager, env.FrontendURL),
			plans,
			billing.NewWebhookReconciler(provider, repos.Claim, billing.NewEventLogFromDB(db)),
		),
		Cities: NewCityController(
			cities.NewServiceFromEnv(repos.City, billing.NewCatalogResolverFromEnv(provider), plans),
		),
	}
}
