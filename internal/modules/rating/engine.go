// README: Rating engine: product flows over one rule snapshot. Pure apart from distance lookups and route creation.
package rating

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rateline/internal/modules/geo"
	"rateline/internal/modules/pricing"
	"rateline/internal/modules/ruletable"
	"rateline/internal/types"
)

// RouteResolver gets or lazily creates the route for an unordered office pair.
type RouteResolver interface {
	GetOrCreate(ctx context.Context, officeA, officeB int64, cat ruletable.SizeCategory) (ruletable.Route, error)
}

type Engine struct {
	geo    *geo.Resolver
	routes RouteResolver
	cfg    Config

	now   func() time.Time
	newID func() string
}

func NewEngine(g *geo.Resolver, routes RouteResolver, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Currency == "" {
		cfg.Currency = def.Currency
	}
	if cfg.VolumetricDivisor.IsZero() {
		cfg.VolumetricDivisor = def.VolumetricDivisor
	}
	if cfg.PackageThresholdKg.IsZero() {
		cfg.PackageThresholdKg = def.PackageThresholdKg
	}
	return &Engine{
		geo:    g,
		routes: routes,
		cfg:    cfg,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) chargeable(weight, length, width, height decimal.Decimal) decimal.Decimal {
	return ChargeableWeight(weight, length, width, height, e.cfg.VolumetricDivisor)
}

func (e *Engine) quote(product Product, distanceKm, chargeable decimal.Decimal) Quote {
	return Quote{
		ID:               e.newID(),
		Product:          product,
		DistanceKm:       distanceKm,
		ChargeableWeight: chargeable,
		IssuedAt:         e.now().UTC(),
	}
}

func (e *Engine) finish(q Quote, fees pricing.Breakdown) Quote {
	q.Fees = fees
	q.Total = types.NewMoney(fees.Total, e.cfg.Currency).Whole()
	return q
}

// roadKm looks up a road distance and rounds it for fee math.
func (e *Engine) roadKm(ctx context.Context, product Product, stage string, a, b types.Coordinate) (decimal.Decimal, error) {
	km, err := e.geo.RoadDistanceKm(ctx, a, b)
	if err != nil {
		return decimal.Zero, unavailable(product, stage, err)
	}
	return types.Km(km), nil
}
