package rating

import (
	"context"

	"github.com/shopspring/decimal"

	"rateline/internal/modules/pricing"
	"rateline/internal/modules/ruletable"
	"rateline/internal/modules/tier"
)

// RateInternational prices by destination city and weight bracket. Flat
// policies charge BasePrice; the rest charge BasePrice per kg.
func (e *Engine) RateInternational(ctx context.Context, snap *ruletable.Snapshot, req InternationalRequest) (Quote, error) {
	const product = ProductInternational
	if err := ValidateRequest(product, req); err != nil {
		return Quote{}, err
	}

	policy, ok := tier.Find(req.Weight, snap.InternationalFor(req.CityID))
	if !ok {
		return Quote{}, fail(ErrNoApplicableTier, product, "international_policy",
			"no policy for city %d at %s kg", req.CityID, req.Weight)
	}

	base := policy.BasePrice
	if !policy.IsFlatPrice {
		base = policy.BasePrice.Mul(req.Weight)
	}

	q := e.quote(product, decimal.Zero, req.Weight)
	q.Resolution.InternationalPolicyID = policy.ID
	return e.finish(q, pricing.Compose(base, decimal.Zero, decimal.Zero, pricing.NoSurge)), nil
}
