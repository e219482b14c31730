package geo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"rateline/internal/logging"
	"rateline/internal/modules/ruletable"
	"rateline/internal/types"
)

// MatchZone returns the first active policy, in table order, whose office is
// within radius_km road distance of the sender or the recipient. Policies whose
// office has no location are skipped. A failed lookup counts as "not within";
// a cancelled context aborts the scan with ErrUnavailable.
func (r *Resolver) MatchZone(
	ctx context.Context,
	sender, recipient types.Coordinate,
	policies []ruletable.ZonePolicy,
	offices []ruletable.Office,
) (ruletable.ZonePolicy, error) {
	byID := make(map[int64]ruletable.Office, len(offices))
	for _, o := range offices {
		byID[o.ID] = o
	}

	for _, p := range policies {
		if !p.Active() {
			continue
		}
		office, ok := byID[p.OfficeID]
		if !ok || office.Location == nil {
			continue
		}

		for _, point := range []types.Coordinate{sender, recipient} {
			within, err := r.within(ctx, point, *office.Location, p.RadiusKm)
			if err != nil {
				return ruletable.ZonePolicy{}, err
			}
			if within {
				return p, nil
			}
		}
	}
	return ruletable.ZonePolicy{}, ErrNoZone
}

func (r *Resolver) within(ctx context.Context, point, centre types.Coordinate, radiusKm decimal.Decimal) (bool, error) {
	km, err := r.RoadDistanceKm(ctx, centre, point)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, errors.Join(ErrUnavailable, ctxErr)
		}
		slog.DebugContext(ctx, "zone radius check skipped", slog.String("point", point.String()), slog.Any("err", err), logging.Traced(ctx))
		return false, nil
	}
	return km.LessThanOrEqual(radiusKm), nil
}
