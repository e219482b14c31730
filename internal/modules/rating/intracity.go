package rating

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"rateline/internal/modules/geo"
	"rateline/internal/modules/pricing"
	"rateline/internal/modules/ruletable"
	"rateline/internal/modules/tier"
)

// RateIntracity prices a shipment inside one office zone. The zone decides the
// size category from actual weight; package brackets use chargeable weight.
func (e *Engine) RateIntracity(ctx context.Context, snap *ruletable.Snapshot, req IntracityRequest) (Quote, error) {
	const product = ProductIntracity
	if err := ValidateRequest(product, req); err != nil {
		return Quote{}, err
	}
	sender, recipient, err := parsePair(product, req.Sender, req.Recipient)
	if err != nil {
		return Quote{}, err
	}

	km, err := e.roadKm(ctx, product, "distance", sender, recipient)
	if err != nil {
		return Quote{}, err
	}

	policy, err := e.geo.MatchZone(ctx, sender, recipient, snap.ZonePolicies, snap.Offices)
	switch {
	case errors.Is(err, geo.ErrNoZone):
		return Quote{}, &Error{Kind: ErrNoApplicableZone, Product: product, Stage: "zone", Detail: err.Error()}
	case err != nil:
		return Quote{}, unavailable(product, "zone", err)
	}

	chargeable := e.chargeable(req.Weight, req.Length, req.Width, req.Height)
	q := e.quote(product, km, chargeable)
	q.Resolution.ZonePolicyID = policy.ID
	q.Resolution.OriginOfficeID = policy.OfficeID

	var base decimal.Decimal
	if req.Weight.GreaterThan(policy.MaxWeight) {
		q.SizeCategory = ruletable.SizePackage
		row, ok := tier.FindRect(chargeable, km, snap.PackagePricingFor(policy.OfficeID))
		if !ok {
			return Quote{}, fail(ErrNoApplicableTier, product, "package_pricing",
				"no bracket for %s kg over %s km at office %d", chargeable.StringFixed(2), km, policy.OfficeID)
		}
		q.Resolution.PackagePricingID = row.ID
		base = row.Price
	} else {
		q.SizeCategory = ruletable.SizeParcel
		if km.GreaterThan(policy.MaxDistanceKm) {
			return Quote{}, fail(ErrDistanceOutOfCoverage, product, "parcel",
				"%s km exceeds zone maximum %s km", km, policy.MaxDistanceKm)
		}
		base = policy.ParcelPrice(km)
	}

	return e.finish(q, pricing.Compose(base, decimal.Zero, decimal.Zero, pricing.NoSurge)), nil
}
