package billing

import (
	"strings"
)

const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Plan is one row of the upgrade plan table: internal tier, the catalog
// nickname that identifies it, and the amount the catalog entry is expected
// to carry.
type Plan struct {
	Tier       string
	Nickname   string
	UnitAmount int64
	Interval   string
}

// Plans lists every upgrade plan a business can subscribe to. Catalog entries
// are matched to plans by nickname only.
var Plans = []Plan{
	{Tier: "enhanced", Nickname: "enhanced_business_profile_monthly", UnitAmount: 999, Interval: IntervalMonth},
	{Tier: "enhanced", Nickname: "enhanced_business_profile_yearly", UnitAmount: 9999, Interval: IntervalYear},
	{Tier: "premium", Nickname: "premium_business_profile_monthly", UnitAmount: 1999, Interval: IntervalMonth},
	{Tier: "premium", Nickname: "premium_business_profile_yearly", UnitAmount: 19999, Interval: IntervalYear},
}

func normalizeNickname(nickname string) string {
	return strings.ToLower(strings.TrimSpace(nickname))
}

func PlanByNickname(nickname string) (Plan, bool) {
	n := normalizeNickname(nickname)
	for _, p := range Plans {
		if p.Nickname == n {
			return p, true
		}
	}
	return Plan{}, false
}

func PlansByTier(tier string) []Plan {
	t := strings.ToLower(strings.TrimSpace(tier))
	var out []Plan
	for _, p := range Plans {
		if p.Tier == t {
			out = append(out, p)
		}
	}
	return out
}

// PlanByAmount returns the plan whose expected amount equals amount. Amounts
// are unique across the table.
func PlanByAmount(amount int64) (Plan, bool) {
	for _, p := range Plans {
		if p.UnitAmount == amount {
			return p, true
		}
	}
	return Plan{}, false
}

func IsKnownPlanNickname(nickname string) bool {
	_, ok := PlanByNickname(nickname)
	return ok
}

// MatchPaidPlan finds the catalog entry a completed checkout paid for: an
// entry with a known plan nickname whose unit amount equals amount and, when
// both sides carry one, whose currency equals currency.
func MatchPaidPlan(prices []Price, amount int64, currency string) (Plan, Price, bool) {
	cur := strings.ToLower(strings.TrimSpace(currency))
	for _, pr := range prices {
		if pr.UnitAmount != amount {
			continue
		}
		if cur != "" && pr.Currency != "" && !strings.EqualFold(pr.Currency, cur) {
			continue
		}
		if plan, ok := PlanByNickname(pr.Nickname); ok {
			return plan, pr, true
		}
	}
	return Plan{}, Price{}, false
}
