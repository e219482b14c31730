// README: Load-time validation of rule tables (overlaps, inverted ranges, dangling references).
package ruletable

import (
	"fmt"
	"strings"

	"rateline/internal/modules/tier"
)

// Issue describes one data-integrity problem. Overlapping rows do not break
// rating (the first row wins) but they usually mean a mis-keyed rule.
type Issue struct {
	Table   string
	Scope   string
	Message string
}

func (i Issue) String() string {
	if i.Scope == "" {
		return i.Table + ": " + i.Message
	}
	return i.Table + "[" + i.Scope + "]: " + i.Message
}

type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		lines = append(lines, i.String())
	}
	return fmt.Sprintf("rule tables invalid (%d issues): %s", len(e.Issues), strings.Join(lines, "; "))
}

// Validate checks a snapshot and returns every issue found, in table order.
func Validate(s *Snapshot) []Issue {
	var issues []Issue
	add := func(table, scope, format string, args ...any) {
		issues = append(issues, Issue{Table: table, Scope: scope, Message: fmt.Sprintf(format, args...)})
	}

	offices := make(map[int64]bool, len(s.Offices))
	for _, o := range s.Offices {
		if offices[o.ID] {
			add("offices", "", "duplicate office id %d", o.ID)
		}
		offices[o.ID] = true
		if o.Location != nil {
			if err := o.Location.Validate(); err != nil {
				add("offices", o.Name, "%v", err)
			}
		}
	}

	for _, p := range s.ZonePolicies {
		if !offices[p.OfficeID] {
			add("zone_policies", fmt.Sprint(p.ID), "unknown office %d", p.OfficeID)
		}
	}

	for _, p := range s.PackagePricing {
		if !offices[p.OfficeID] {
			add("package_pricing", fmt.Sprint(p.ID), "unknown office %d", p.OfficeID)
		}
	}
	for _, i := range tier.RectInverted(s.PackagePricing) {
		add("package_pricing", fmt.Sprint(s.PackagePricing[i].ID), "min above max")
	}
	officeOrder, byOffice := group(s.PackagePricing, func(p PackagePricing) int64 { return p.OfficeID })
	for _, officeID := range officeOrder {
		rows := byOffice[officeID]
		for _, c := range tier.RectOverlaps(rows) {
			add("package_pricing", fmt.Sprintf("office %d", officeID), "rows %d and %d overlap", rows[c.First].ID, rows[c.Second].ID)
		}
	}

	routes := make(map[string]bool, len(s.Routes))
	for _, r := range s.Routes {
		if !r.SizeCategory.Valid() {
			add("routes", r.ID, "unknown size category %q", r.SizeCategory)
		}
		routes[r.ID] = true
	}
	for _, t := range s.RouteTiers {
		if len(s.Routes) > 0 && !routes[t.RouteID] {
			add("route_tiers", fmt.Sprint(t.ID), "unknown route %s", t.RouteID)
		}
	}
	routeOrder, byRoute := group(s.RouteTiers, func(t RouteTier) string { return t.RouteID })
	for _, routeID := range routeOrder {
		rows := byRoute[routeID]
		for _, i := range tier.Inverted(rows) {
			add("route_tiers", routeID, "tier %d has min above max", rows[i].ID)
		}
		for _, c := range tier.Overlaps(rows) {
			add("route_tiers", routeID, "tiers %d and %d overlap", rows[c.First].ID, rows[c.Second].ID)
		}
	}

	for _, i := range tier.Inverted(s.DistanceBands) {
		add("distance_bands", s.DistanceBands[i].Name, "min above max")
	}
	for _, c := range tier.Overlaps(s.DistanceBands) {
		add("distance_bands", "", "%q and %q overlap", s.DistanceBands[c.First].Name, s.DistanceBands[c.Second].Name)
	}
	for _, i := range tier.Inverted(s.WeightTiers) {
		add("weight_tiers", s.WeightTiers[i].Name, "min above max")
	}
	for _, c := range tier.Overlaps(s.WeightTiers) {
		add("weight_tiers", "", "%q and %q overlap", s.WeightTiers[c.First].Name, s.WeightTiers[c.Second].Name)
	}

	type rateKey struct{ vehicle, band, weight int64 }
	seen := map[rateKey]bool{}
	for _, p := range s.VehiclePricing {
		k := rateKey{p.VehicleID, p.BandID, p.WeightTierID}
		if seen[k] {
			add("vehicle_pricing", "", "duplicate rate for vehicle %d band %d weight tier %d", k.vehicle, k.band, k.weight)
		}
		seen[k] = true
	}

	for _, sg := range s.Surges {
		if sg.IncreasePercent.IsPositive() && sg.DecreasePercent.IsPositive() {
			add("surges", sg.Name, "both increase and decrease percent set")
		}
		if sg.Active && len(sg.Keywords()) == 0 {
			add("surges", sg.Name, "active surge without locations")
		}
	}

	cityOrder, byCity := group(s.International, func(p InternationalPolicy) int64 { return p.CityID })
	for _, cityID := range cityOrder {
		rows := byCity[cityID]
		for _, i := range tier.Inverted(rows) {
			add("international", fmt.Sprintf("city %d", cityID), "policy %d has min above max", rows[i].ID)
		}
		for _, c := range tier.Overlaps(rows) {
			add("international", fmt.Sprintf("city %d", cityID), "policies %d and %d overlap", rows[c.First].ID, rows[c.Second].ID)
		}
	}

	return issues
}

// group buckets rows by key, keeping keys in order of first appearance.
func group[T any, K comparable](rows []T, key func(T) K) ([]K, map[K][]T) {
	var order []K
	out := map[K][]T{}
	for _, r := range rows {
		k := key(r)
		if _, ok := out[k]; !ok {
			order = append(order, k)
		}
		out[k] = append(out[k], r)
	}
	return order, out
}
