package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"

	"github.com/ManuelReschke/LocalInspire/internal/pkg/apperrors"
	"github.com/ManuelReschke/LocalInspire/internal/pkg/env"
)

const (
	DefaultCurrency = "usd"

	// MaxUnitAmount is the largest unit amount, in minor units, the payment
	// provider accepts on a price.
	MaxUnitAmount int64 = 99999999
)

var ErrNoMatchingProduct = errors.New("no catalog product matches the request")

// ProductMatcher selects the product a newly created price is attached to.
type ProductMatcher func(Product) bool

// ProductNamed matches a product by name, case-insensitively.
func ProductNamed(name string) ProductMatcher {
	want := strings.TrimSpace(name)
	return func(p Product) bool {
		return want != "" && strings.EqualFold(strings.TrimSpace(p.Name), want)
	}
}

type PriceRequest struct {
	// Amount in major units, e.g. 9.99.
	Amount         float64
	NicknamePrefix string
	Match          ProductMatcher
}

type Resolution struct {
	Price   Price
	Created bool
}

// CatalogResolver finds or creates recurring catalog entries for a fixed
// currency.
type CatalogResolver struct {
	provider Provider
	currency string
}

func NewCatalogResolver(provider Provider, currency string) *CatalogResolver {
	c := strings.ToLower(strings.TrimSpace(currency))
	if c == "" {
		c = DefaultCurrency
	}
	return &CatalogResolver{provider: provider, currency: c}
}

func NewCatalogResolverFromEnv(provider Provider) *CatalogResolver {
	return NewCatalogResolver(provider, env.GetEnv("BILLING_CURRENCY", DefaultCurrency))
}

func (r *CatalogResolver) Currency() string {
	return r.currency
}

func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

// ActivePrices drops archived catalog entries. Archived entries stay listed by
// the provider but can no longer be sold.
func ActivePrices(prices []Price) []Price {
	out := make([]Price, 0, len(prices))
	for _, p := range prices {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// PriceNickname builds the nickname of a resolver-created entry, e.g.
// city_listing_999.
func PriceNickname(prefix string, minor int64) string {
	return fmt.Sprintf("%s_%d", prefix, minor)
}

// ResolveOrCreatePrice returns the first active catalog entry in the resolver's
// currency whose nickname starts with req.NicknamePrefix and whose unit amount
// equals req.Amount, creating a monthly entry on the matched product when none
// exists.
//
// Listing and creating are not atomic against the provider. Two callers
// resolving the same new amount at the same time can both create an entry;
// later calls reuse whichever is listed first.
func (r *CatalogResolver) ResolveOrCreatePrice(ctx context.Context, req PriceRequest) (*Resolution, error) {
	const op = "billing.resolve_price"
	prefix := strings.TrimSpace(req.NicknamePrefix)
	if prefix == "" {
		return nil, apperrors.Validation(op, "nickname prefix is required")
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, apperrors.Validation(op, "price must be a finite number")
	}
	if req.Amount > FromMinorUnits(MaxUnitAmount) {
		return nil, apperrors.Validation(op, fmt.Sprintf("price must not exceed %.2f", FromMinorUnits(MaxUnitAmount)))
	}
	minor := ToMinorUnits(req.Amount)
	if minor <= 0 {
		return nil, apperrors.Validation(op, "price must be greater than zero")
	}

	var (
		prices   []Price
		products []Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prices, err = r.provider.ListPrices(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = r.provider.ListProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, asExternal(op, err)
	}

	for _, p := range ActivePrices(prices) {
		if strings.HasPrefix(p.Nickname, prefix) && p.UnitAmount == minor && strings.EqualFold(p.Currency, r.currency) {
			return &Resolution{Price: p}, nil
		}
	}

	var product *Product
	if req.Match != nil {
		for i := range products {
			if req.Match(products[i]) {
				product = &products[i]
				break
			}
		}
	}
	if product == nil {
		return nil, apperrors.ExternalService(op, ErrNoMatchingProduct)
	}

	created, err := r.provider.CreatePrice(ctx, NewPrice{
		Nickname:   PriceNickname(prefix, minor),
		UnitAmount: minor,
		Currency:   r.currency,
		Interval:   IntervalMonth,
		ProductID:  product.ID,
	})
	if err != nil {
		return nil, asExternal(op, err)
	}
	log.Infof("billing: created catalog entry %s (%s) on product %s", created.ID, created.Nickname, product.ID)
	return &Resolution{Price: *created, Created: true}, nil
}

// asExternal keeps an already classified error and treats anything else as a
// provider failure.
func asExternal(op string, err error) error {
	if apperrors.KindOf(err) != "" {
		return err
	}
	return apperrors.ExternalService(op, err)
}
