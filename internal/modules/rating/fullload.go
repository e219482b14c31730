package rating

import (
	"context"

	"github.com/shopspring/decimal"

	"rateline/internal/modules/pricing"
	"rateline/internal/modules/ruletable"
	"rateline/internal/modules/tier"
)

// RateFullLoad prices a dedicated vehicle by (vehicle, distance band, weight
// tier), with an optional surge keyed on the destination name.
func (e *Engine) RateFullLoad(ctx context.Context, snap *ruletable.Snapshot, req FullLoadRequest) (Quote, error) {
	const product = ProductFullLoad
	if err := ValidateRequest(product, req); err != nil {
		return Quote{}, err
	}
	origin, destination, err := parsePair(product, req.Origin, req.Destination)
	if err != nil {
		return Quote{}, err
	}

	km, err := e.roadKm(ctx, product, "distance", origin, destination)
	if err != nil {
		return Quote{}, err
	}

	band, ok := tier.Find(km, snap.DistanceBands)
	if !ok {
		return Quote{}, fail(ErrNoApplicableTier, product, "distance_band", "no band for %s km", km)
	}
	weightTier, ok := tier.Find(req.Weight, snap.WeightTiers)
	if !ok {
		return Quote{}, fail(ErrNoApplicableTier, product, "weight_tier", "no weight tier for %s kg", req.Weight)
	}
	vehicle, ok := snap.Vehicle(req.VehicleID)
	if !ok {
		return Quote{}, fail(ErrInputInvalid, product, "vehicle", "unknown vehicle %d", req.VehicleID)
	}
	rate, ok := snap.VehicleRate(vehicle.ID, band.ID, weightTier.ID)
	if !ok {
		return Quote{}, fail(ErrNoApplicableRate, product, "vehicle_pricing",
			"no rate for vehicle %q in band %q and tier %q", vehicle.Name, band.Name, weightTier.Name)
	}

	q := e.quote(product, km, req.Weight)
	q.Resolution.VehicleID = vehicle.ID
	q.Resolution.VehicleName = vehicle.Name
	q.Resolution.BandID = band.ID
	q.Resolution.BandName = band.Name
	q.Resolution.WeightTierID = weightTier.ID
	q.Resolution.WeightTierName = weightTier.Name

	adj := pricing.NoSurge
	if s, ok := pricing.MatchSurge(req.DestinationName, weightTier.ID, snap.Surges); ok {
		adj = pricing.SurgeAdjustment(s)
		q.Resolution.SurgeID = s.ID
	}

	return e.finish(q, pricing.Compose(rate.Price(km), decimal.Zero, decimal.Zero, adj)), nil
}
