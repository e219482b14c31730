// README: Road-distance port and nearest-office resolution.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rateline/internal/metric"
	"rateline/internal/modules/ruletable"
	"rateline/internal/types"
)

var (
	ErrUnavailable = errors.New("road distance unavailable")
	ErrNoZone      = errors.New("pickup and dropoff must be within the same intracity zone")
)

// DistanceProvider returns the driving distance in kilometres between two points.
type DistanceProvider interface {
	RoadDistance(ctx context.Context, origin, destination types.Coordinate) (decimal.Decimal, error)
}

// ProviderFunc adapts a function to DistanceProvider.
type ProviderFunc func(ctx context.Context, origin, destination types.Coordinate) (decimal.Decimal, error)

func (f ProviderFunc) RoadDistance(ctx context.Context, origin, destination types.Coordinate) (decimal.Decimal, error) {
	return f(ctx, origin, destination)
}

// GeodesicProvider answers with the straight-line distance. Useful offline and in tests.
type GeodesicProvider struct{}

func (GeodesicProvider) RoadDistance(ctx context.Context, origin, destination types.Coordinate) (decimal.Decimal, error) {
	return decimal.NewFromFloat(StraightLineKm(origin, destination)), nil
}

type Resolver struct {
	provider DistanceProvider
	timeout  time.Duration
}

// NewResolver wraps provider. A positive timeout bounds every lookup; expiry is
// reported as ErrUnavailable like any other provider failure.
func NewResolver(provider DistanceProvider, timeout time.Duration) *Resolver {
	return &Resolver{provider: provider, timeout: timeout}
}

// RoadDistanceKm never returns a provider error directly: every failure is
// wrapped in ErrUnavailable. The distance is not rounded.
func (r *Resolver) RoadDistanceKm(ctx context.Context, a, b types.Coordinate) (decimal.Decimal, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	start := time.Now()
	km, err := r.provider.RoadDistance(ctx, a, b)
	if err == nil && km.IsNegative() {
		err = fmt.Errorf("negative distance %s", km)
	}
	if err != nil {
		metric.ObserveDistanceLookup(time.Since(start), "unavailable")
		return decimal.Zero, fmt.Errorf("%w: %s -> %s: %v", ErrUnavailable, a, b, err)
	}
	metric.ObserveDistanceLookup(time.Since(start), "ok")
	return km, nil
}

// NearestOffice picks the office closest to p in straight-line distance.
// Offices without a location are ignored; on a tie the earlier office wins.
func NearestOffice(p types.Coordinate, offices []ruletable.Office) (ruletable.Office, bool) {
	var (
		nearest ruletable.Office
		found   bool
		best    float64
	)
	for _, o := range offices {
		if o.Location == nil {
			continue
		}
		d := StraightLineKm(p, *o.Location)
		if !found || d < best {
			nearest, best, found = o, d, true
		}
	}
	return nearest, found
}
