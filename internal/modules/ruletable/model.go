// README: Reference data and rule rows consumed read-only by the rating engine.
package ruletable

import (
	"strings"

	"github.com/shopspring/decimal"

	"rateline/internal/types"
)

type SizeCategory string

const (
	SizeParcel  SizeCategory = "parcel"
	SizePackage SizeCategory = "package"
)

func (c SizeCategory) Valid() bool { return c == SizeParcel || c == SizePackage }

type Office struct {
	ID       int64             `yaml:"id"`
	Name     string            `yaml:"name"`
	Location *types.Coordinate `yaml:"location"`

	EnablePickup      bool            `yaml:"enable_pickup"`
	PickupFirstFreeKm decimal.Decimal `yaml:"pickup_first_free_km"`
	// PickupDiscountPercent is taken off the pickup fee of inter-county shipments.
	PickupDiscountPercent decimal.Decimal `yaml:"pickup_discount_percent"`

	IsIntracityCentre bool            `yaml:"is_intracity_centre"`
	IntracityRadiusKm decimal.Decimal `yaml:"intracity_radius_km"`
}

// ZonePolicy is the intracity parcel policy around one office.
type ZonePolicy struct {
	ID              int64           `yaml:"id"`
	OfficeID        int64           `yaml:"office_id"`
	Disabled        bool            `yaml:"disabled"`
	RadiusKm        decimal.Decimal `yaml:"radius_km"`
	BaseKm          decimal.Decimal `yaml:"base_km"`
	BasePrice       decimal.Decimal `yaml:"base_price"`
	ExtraPricePerKm decimal.Decimal `yaml:"extra_price_per_km"`
	MaxWeight       decimal.Decimal `yaml:"max_weight"`
	MaxDistanceKm   decimal.Decimal `yaml:"max_distance_km"`
}

func (p ZonePolicy) Active() bool { return !p.Disabled }

// ParcelPrice charges BasePrice up to BaseKm and ExtraPricePerKm for every km beyond.
func (p ZonePolicy) ParcelPrice(distanceKm decimal.Decimal) decimal.Decimal {
	if distanceKm.LessThanOrEqual(p.BaseKm) {
		return p.BasePrice
	}
	return p.BasePrice.Add(distanceKm.Sub(p.BaseKm).Mul(p.ExtraPricePerKm))
}

// PackagePricing is a flat intracity price for a weight × distance rectangle.
type PackagePricing struct {
	ID          int64           `yaml:"id"`
	OfficeID    int64           `yaml:"office_id"`
	MinWeight   decimal.Decimal `yaml:"min_weight"`
	MaxWeight   decimal.Decimal `yaml:"max_weight"`
	MinDistance decimal.Decimal `yaml:"min_distance"`
	MaxDistance decimal.Decimal `yaml:"max_distance"`
	Price       decimal.Decimal `yaml:"price"`
}

func (p PackagePricing) WeightBounds() (decimal.Decimal, decimal.Decimal) {
	return p.MinWeight, p.MaxWeight
}

func (p PackagePricing) DistanceBounds() (decimal.Decimal, decimal.Decimal) {
	return p.MinDistance, p.MaxDistance
}

// Route is an inter-county relation between two offices. OfficeA <= OfficeB always;
// the pair is unordered.
type Route struct {
	ID           string       `yaml:"id"`
	OfficeA      int64        `yaml:"office_a"`
	OfficeB      int64        `yaml:"office_b"`
	SizeCategory SizeCategory `yaml:"size_category"`
}

// Serves reports whether the route connects the two offices in either direction.
func (r Route) Serves(a, b int64) bool {
	return (r.OfficeA == a && r.OfficeB == b) || (r.OfficeA == b && r.OfficeB == a)
}

// RouteTier prices one weight bracket of a route. A tier starting at zero weight
// carries a flat price in PricePerKg.
type RouteTier struct {
	ID         int64           `yaml:"id"`
	RouteID    string          `yaml:"route_id"`
	MinWeight  decimal.Decimal `yaml:"min_weight"`
	MaxWeight  decimal.Decimal `yaml:"max_weight"`
	PricePerKg decimal.Decimal `yaml:"price_per_kg"`
}

func (t RouteTier) Bounds() (decimal.Decimal, decimal.Decimal) { return t.MinWeight, t.MaxWeight }

func (t RouteTier) IsFlat() bool { return t.MinWeight.IsZero() }

type LastMilePolicy struct {
	OfficeID     int64           `yaml:"office_id"`
	FreeWithinKm decimal.Decimal `yaml:"free_within_km"`
	PerKmFee     decimal.Decimal `yaml:"per_km_fee"`
}

// Fee is zero inside the free radius and PerKmFee per km beyond it.
func (p LastMilePolicy) Fee(distanceKm decimal.Decimal) decimal.Decimal {
	if distanceKm.LessThanOrEqual(p.FreeWithinKm) {
		return decimal.Zero
	}
	return distanceKm.Sub(p.FreeWithinKm).Mul(p.PerKmFee)
}

type VehicleType struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Capacity    int    `yaml:"capacity"`
	Description string `yaml:"description"`
}

type DistanceBand struct {
	ID    int64           `yaml:"id"`
	Name  string          `yaml:"name"`
	MinKm decimal.Decimal `yaml:"min_km"`
	MaxKm decimal.Decimal `yaml:"max_km"`
}

func (b DistanceBand) Bounds() (decimal.Decimal, decimal.Decimal) { return b.MinKm, b.MaxKm }

type WeightTier struct {
	ID        int64           `yaml:"id"`
	Name      string          `yaml:"name"`
	MinWeight decimal.Decimal `yaml:"min_weight"`
	MaxWeight decimal.Decimal `yaml:"max_weight"`
}

func (w WeightTier) Bounds() (decimal.Decimal, decimal.Decimal) { return w.MinWeight, w.MaxWeight }

// VehiclePricing is unique per (vehicle, band, weight tier).
type VehiclePricing struct {
	VehicleID    int64           `yaml:"vehicle_id"`
	BandID       int64           `yaml:"band_id"`
	WeightTierID int64           `yaml:"weight_tier_id"`
	BaseDistance decimal.Decimal `yaml:"base_distance"`
	BasePrice    decimal.Decimal `yaml:"base_price"`
	ExtraPerKm   decimal.Decimal `yaml:"extra_per_km"`
}

func (p VehiclePricing) Price(distanceKm decimal.Decimal) decimal.Decimal {
	if distanceKm.LessThanOrEqual(p.BaseDistance) {
		return p.BasePrice
	}
	return p.BasePrice.Add(distanceKm.Sub(p.BaseDistance).Mul(p.ExtraPerKm))
}

// Surge adjusts full-load totals for destinations matching any of its keywords.
type Surge struct {
	ID              int64           `yaml:"id"`
	Name            string          `yaml:"name"`
	Active          bool            `yaml:"active"`
	Locations       string          `yaml:"locations"`
	WeightTierIDs   []int64         `yaml:"weight_tier_ids"`
	IncreasePercent decimal.Decimal `yaml:"increase_percent"`
	DecreasePercent decimal.Decimal `yaml:"decrease_percent"`
}

// Keywords splits the comma separated location list, dropping blanks.
func (s Surge) Keywords() []string {
	var out []string
	for _, k := range strings.Split(s.Locations, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

type InternationalPolicy struct {
	ID          int64           `yaml:"id"`
	CityID      int64           `yaml:"city_id"`
	MinWeight   decimal.Decimal `yaml:"min_weight"`
	MaxWeight   decimal.Decimal `yaml:"max_weight"`
	BasePrice   decimal.Decimal `yaml:"base_price"`
	IsFlatPrice bool            `yaml:"is_flat_price"`
}

func (p InternationalPolicy) Bounds() (decimal.Decimal, decimal.Decimal) {
	return p.MinWeight, p.MaxWeight
}
