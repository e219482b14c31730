package rating

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"rateline/internal/modules/geo"
	"rateline/internal/modules/pricing"
	"rateline/internal/modules/ruletable"
	"rateline/internal/modules/tier"
	"rateline/internal/types"
)

// RateInterCounty prices office-to-office transport between the offices nearest
// to sender and recipient, plus optional pickup and last-mile legs.
func (e *Engine) RateInterCounty(ctx context.Context, snap *ruletable.Snapshot, req InterCountyRequest) (Quote, error) {
	const product = ProductInterCounty
	if err := ValidateRequest(product, req); err != nil {
		return Quote{}, err
	}
	sender, recipient, err := parsePair(product, req.Sender, req.Recipient)
	if err != nil {
		return Quote{}, err
	}

	origin, ok := geo.NearestOffice(sender, snap.Offices)
	if !ok {
		return Quote{}, fail(ErrNoApplicableRoute, product, "nearest_office", "no office near sender %s", sender)
	}
	dest, ok := geo.NearestOffice(recipient, snap.Offices)
	if !ok {
		return Quote{}, fail(ErrNoApplicableRoute, product, "nearest_office", "no office near recipient %s", recipient)
	}

	chargeable := e.chargeable(req.Weight, req.Length, req.Width, req.Height)
	cat := ruletable.SizeParcel
	if chargeable.GreaterThan(e.cfg.PackageThresholdKg) {
		cat = ruletable.SizePackage
	}

	route, err := e.resolveRoute(ctx, snap, origin.ID, dest.ID, cat)
	if err != nil {
		return Quote{}, fmt.Errorf("rating %s: resolve route %d-%d: %w", product, origin.ID, dest.ID, err)
	}
	tiers := snap.TiersForRoute(route.ID)
	if len(tiers) == 0 {
		return Quote{}, fail(ErrNoApplicableRoute, product, "route",
			"no %s pricing between offices %d and %d", cat, origin.ID, dest.ID)
	}
	t, ok := tier.Find(chargeable, tiers)
	if !ok {
		return Quote{}, fail(ErrNoApplicableTier, product, "route_tier",
			"no tier for %s kg on route %s", chargeable.StringFixed(2), route.ID)
	}

	base := t.PricePerKg
	if !t.IsFlat() {
		base = t.PricePerKg.Mul(chargeable)
	}

	pickup := decimal.Zero
	if req.RequiresPickup && origin.EnablePickup {
		if pickup, err = e.pickupFee(ctx, snap, sender, origin, cat, chargeable); err != nil {
			return Quote{}, err
		}
	}

	lastMile := decimal.Zero
	if req.RequiresLastMile {
		if lastMile, err = e.lastMileFee(ctx, snap, dest, recipient); err != nil {
			return Quote{}, err
		}
	}

	q := e.quote(product, types.Km(decimal.NewFromFloat(geo.StraightLineKm(*origin.Location, *dest.Location))), chargeable)
	q.SizeCategory = cat
	q.Resolution.OriginOfficeID = origin.ID
	q.Resolution.DestinationOfficeID = dest.ID
	q.Resolution.RouteID = route.ID
	q.Resolution.RouteTierID = t.ID

	return e.finish(q, pricing.Compose(base, pickup, lastMile, pricing.NoSurge)), nil
}

// resolveRoute prefers the route declared in the snapshot, so routes added by a
// rule reload price immediately; the registry only covers pairs the snapshot
// does not know yet.
func (e *Engine) resolveRoute(ctx context.Context, snap *ruletable.Snapshot, a, b int64, cat ruletable.SizeCategory) (ruletable.Route, error) {
	if r, ok := snap.RouteFor(a, b, cat); ok {
		return r, nil
	}
	return e.routes.GetOrCreate(ctx, a, b, cat)
}

// pickupFee reuses the intracity tables for the sender→office leg: package
// brackets across all offices, or the origin office's parcel formula, applied to
// the distance beyond the free allowance. Missing rules price the leg at zero.
func (e *Engine) pickupFee(ctx context.Context, snap *ruletable.Snapshot, sender types.Coordinate, origin ruletable.Office, cat ruletable.SizeCategory, chargeable decimal.Decimal) (decimal.Decimal, error) {
	km, err := e.roadKm(ctx, ProductInterCounty, "pickup", sender, *origin.Location)
	if err != nil {
		return decimal.Zero, err
	}
	if km.LessThanOrEqual(origin.PickupFirstFreeKm) {
		return decimal.Zero, nil
	}
	excess := km.Sub(origin.PickupFirstFreeKm)

	fee := decimal.Zero
	switch cat {
	case ruletable.SizePackage:
		if row, ok := tier.FindRect(chargeable, excess, snap.PackagePricing); ok {
			fee = row.Price
		}
	default:
		if policy, ok := snap.ZonePolicyFor(origin.ID); ok {
			fee = policy.ParcelPrice(excess)
		}
	}
	return pricing.Discount(fee, origin.PickupDiscountPercent), nil
}

func (e *Engine) lastMileFee(ctx context.Context, snap *ruletable.Snapshot, dest ruletable.Office, recipient types.Coordinate) (decimal.Decimal, error) {
	policy, ok := snap.LastMileFor(dest.ID)
	if !ok {
		return decimal.Zero, nil
	}
	km, err := e.roadKm(ctx, ProductInterCounty, "last_mile", *dest.Location, recipient)
	if err != nil {
		return decimal.Zero, err
	}
	return policy.Fee(km), nil
}
