// README: Snapshot bundles one consistent version of every rule table.
package ruletable

import (
	"context"
	"time"
)

// Source yields a snapshot for one rating call. Implementations must return a
// value the caller may read without further synchronization.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Snapshot is immutable once handed to the engine. All tables are ordered;
// lookups that can match several rows pick the first one.
type Snapshot struct {
	LoadedAt time.Time `yaml:"-"`

	Offices        []Office              `yaml:"offices"`
	ZonePolicies   []ZonePolicy          `yaml:"zone_policies"`
	PackagePricing []PackagePricing      `yaml:"package_pricing"`
	Routes         []Route               `yaml:"routes"`
	RouteTiers     []RouteTier           `yaml:"route_tiers"`
	LastMile       []LastMilePolicy      `yaml:"last_mile"`
	Vehicles       []VehicleType         `yaml:"vehicles"`
	DistanceBands  []DistanceBand        `yaml:"distance_bands"`
	WeightTiers    []WeightTier          `yaml:"weight_tiers"`
	VehiclePricing []VehiclePricing      `yaml:"vehicle_pricing"`
	Surges         []Surge               `yaml:"surges"`
	International  []InternationalPolicy `yaml:"international"`
}

func (s *Snapshot) Office(id int64) (Office, bool) {
	for _, o := range s.Offices {
		if o.ID == id {
			return o, true
		}
	}
	return Office{}, false
}

// ZonePolicyFor returns the first policy configured for the office.
func (s *Snapshot) ZonePolicyFor(officeID int64) (ZonePolicy, bool) {
	for _, p := range s.ZonePolicies {
		if p.OfficeID == officeID {
			return p, true
		}
	}
	return ZonePolicy{}, false
}

func (s *Snapshot) PackagePricingFor(officeID int64) []PackagePricing {
	var out []PackagePricing
	for _, p := range s.PackagePricing {
		if p.OfficeID == officeID {
			out = append(out, p)
		}
	}
	return out
}

// RouteFor returns the first declared route joining the two offices, in either
// direction, for the size category.
func (s *Snapshot) RouteFor(a, b int64, cat SizeCategory) (Route, bool) {
	for _, r := range s.Routes {
		if r.SizeCategory == cat && r.Serves(a, b) {
			return r, true
		}
	}
	return Route{}, false
}

func (s *Snapshot) TiersForRoute(routeID string) []RouteTier {
	var out []RouteTier
	for _, t := range s.RouteTiers {
		if t.RouteID == routeID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Snapshot) LastMileFor(officeID int64) (LastMilePolicy, bool) {
	for _, p := range s.LastMile {
		if p.OfficeID == officeID {
			return p, true
		}
	}
	return LastMilePolicy{}, false
}

func (s *Snapshot) Vehicle(id int64) (VehicleType, bool) {
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return VehicleType{}, false
}

func (s *Snapshot) VehicleRate(vehicleID, bandID, weightTierID int64) (VehiclePricing, bool) {
	for _, p := range s.VehiclePricing {
		if p.VehicleID == vehicleID && p.BandID == bandID && p.WeightTierID == weightTierID {
			return p, true
		}
	}
	return VehiclePricing{}, false
}

func (s *Snapshot) InternationalFor(cityID int64) []InternationalPolicy {
	var out []InternationalPolicy
	for _, p := range s.International {
		if p.CityID == cityID {
			out = append(out, p)
		}
	}
	return out
}

// Static serves the same snapshot to every caller.
type Static struct {
	snap *Snapshot
}

func NewStatic(snap *Snapshot) *Static {
	return &Static{snap: snap}
}

func (s *Static) Snapshot(ctx context.Context) (*Snapshot, error) {
	return s.snap, nil
}
