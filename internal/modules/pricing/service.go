// README: Fee composition, surge matching, and the pickup discount.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"rateline/internal/modules/ruletable"
	"rateline/internal/types"
)

// Compose sums the components and applies adj to the sum, not to base alone.
func Compose(base, pickup, lastMile decimal.Decimal, adj Adjustment) Breakdown {
	subtotal := base.Add(pickup).Add(lastMile)
	surge := adj.Amount(subtotal)
	total := subtotal.Add(surge)
	return Breakdown{
		Base:      base,
		Pickup:    pickup,
		LastMile:  lastMile,
		Subtotal:  subtotal,
		Surge:     surge,
		Total:     total,
		Presented: types.RoundHalfUp(total, 0),
	}
}

// MatchSurge returns the first active surge with a keyword contained in the
// destination (case-insensitive) whose weight-tier set is empty or holds weightTierID.
func MatchSurge(destination string, weightTierID int64, surges []ruletable.Surge) (ruletable.Surge, bool) {
	dest := strings.ToLower(destination)
	if strings.TrimSpace(dest) == "" {
		return ruletable.Surge{}, false
	}
	for _, s := range surges {
		if !s.Active || !appliesToTier(s, weightTierID) {
			continue
		}
		for _, kw := range s.Keywords() {
			if strings.Contains(dest, strings.ToLower(kw)) {
				return s, true
			}
		}
	}
	return ruletable.Surge{}, false
}

func appliesToTier(s ruletable.Surge, weightTierID int64) bool {
	if len(s.WeightTierIDs) == 0 {
		return true
	}
	for _, id := range s.WeightTierIDs {
		if id == weightTierID {
			return true
		}
	}
	return false
}

// Discount takes percent off amount. Percents outside (0,100] leave it unchanged.
func Discount(amount, percent decimal.Decimal) decimal.Decimal {
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return amount
	}
	return amount.Sub(amount.Mul(percent).Div(hundred))
}
