// README: Rule-table snapshot store backed by PostgreSQL.
package ruletable

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rateline/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Snapshot reads every table inside one read-only repeatable-read transaction,
// so a quote never sees half of a rule update.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	snap := &Snapshot{LoadedAt: time.Now().UTC()}
	loaders := []struct {
		table string
		load  func(context.Context, pgx.Tx, *Snapshot) error
	}{
		{"offices", loadOffices},
		{"zone_policies", loadZonePolicies},
		{"package_pricing", loadPackagePricing},
		{"routes", loadRoutes},
		{"route_tiers", loadRouteTiers},
		{"last_mile_policies", loadLastMile},
		{"vehicle_types", loadVehicles},
		{"distance_bands", loadDistanceBands},
		{"weight_tiers", loadWeightTiers},
		{"vehicle_pricing", loadVehiclePricing},
		{"surges", loadSurges},
		{"international_policies", loadInternational},
	}
	for _, l := range loaders {
		if err := l.load(ctx, tx, snap); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func loadOffices(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, name, lat, lng, enable_pickup, pickup_first_free_km, pickup_discount_percent,
               is_intracity_centre, intracity_radius_km
        FROM offices
        ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var o Office
		var lat, lng *float64
		if err := rows.Scan(&o.ID, &o.Name, &lat, &lng, &o.EnablePickup, &o.PickupFirstFreeKm,
			&o.PickupDiscountPercent, &o.IsIntracityCentre, &o.IntracityRadiusKm); err != nil {
			return err
		}
		if lat != nil && lng != nil {
			c := types.NewCoordinate(*lat, *lng)
			o.Location = &c
		}
		snap.Offices = append(snap.Offices, o)
	}
	return rows.Err()
}

func loadZonePolicies(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, office_id, disabled, radius_km, base_km, base_price, extra_price_per_km,
               max_weight, max_distance_km
        FROM zone_policies
        ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p ZonePolicy
		if err := rows.Scan(&p.ID, &p.OfficeID, &p.Disabled, &p.RadiusKm, &p.BaseKm, &p.BasePrice,
			&p.ExtraPricePerKm, &p.MaxWeight, &p.MaxDistanceKm); err != nil {
			return err
		}
		snap.ZonePolicies = append(snap.ZonePolicies, p)
	}
	return rows.Err()
}

func loadPackagePricing(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, office_id, min_weight, max_weight, min_distance, max_distance, price
        FROM package_pricing
        ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p PackagePricing
		if err := rows.Scan(&p.ID, &p.OfficeID, &p.MinWeight, &p.MaxWeight, &p.MinDistance, &p.MaxDistance, &p.Price); err != nil {
			return err
		}
		snap.PackagePricing = append(snap.PackagePricing, p)
	}
	return rows.Err()
}

func loadRoutes(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, office_a, office_b, size_category
        FROM routes
        ORDER BY created_at, id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r Route
		var cat string
		if err := rows.Scan(&r.ID, &r.OfficeA, &r.OfficeB, &cat); err != nil {
			return err
		}
		r.SizeCategory = SizeCategory(cat)
		snap.Routes = append(snap.Routes, r)
	}
	return rows.Err()
}

func loadRouteTiers(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, route_id, min_weight, max_weight, price_per_kg
        FROM route_tiers
        ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t RouteTier
		if err := rows.Scan(&t.ID, &t.RouteID, &t.MinWeight, &t.MaxWeight, &t.PricePerKg); err != nil {
			return err
		}
		snap.RouteTiers = append(snap.RouteTiers, t)
	}
	return rows.Err()
}

func loadLastMile(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT office_id, free_within_km, per_km_fee
        FROM last_mile_policies
        ORDER BY office_id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p LastMilePolicy
		if err := rows.Scan(&p.OfficeID, &p.FreeWithinKm, &p.PerKmFee); err != nil {
			return err
		}
		snap.LastMile = append(snap.LastMile, p)
	}
	return rows.Err()
}

func loadVehicles(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `SELECT id, name, capacity, description FROM vehicle_types ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var v VehicleType
		if err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &v.Description); err != nil {
			return err
		}
		snap.Vehicles = append(snap.Vehicles, v)
	}
	return rows.Err()
}

func loadDistanceBands(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `SELECT id, name, min_km, max_km FROM distance_bands ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var b DistanceBand
		if err := rows.Scan(&b.ID, &b.Name, &b.MinKm, &b.MaxKm); err != nil {
			return err
		}
		snap.DistanceBands = append(snap.DistanceBands, b)
	}
	return rows.Err()
}

func loadWeightTiers(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `SELECT id, name, min_weight, max_weight FROM weight_tiers ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var w WeightTier
		if err := rows.Scan(&w.ID, &w.Name, &w.MinWeight, &w.MaxWeight); err != nil {
			return err
		}
		snap.WeightTiers = append(snap.WeightTiers, w)
	}
	return rows.Err()
}

func loadVehiclePricing(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT vehicle_id, band_id, weight_tier_id, base_distance, base_price, extra_per_km
        FROM vehicle_pricing
        ORDER BY vehicle_id, band_id, weight_tier_id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p VehiclePricing
		if err := rows.Scan(&p.VehicleID, &p.BandID, &p.WeightTierID, &p.BaseDistance, &p.BasePrice, &p.ExtraPerKm); err != nil {
			return err
		}
		snap.VehiclePricing = append(snap.VehiclePricing, p)
	}
	return rows.Err()
}

func loadSurges(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, name, active, locations, weight_tier_ids, increase_percent, decrease_percent
        FROM surges
        ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sg Surge
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.Active, &sg.Locations, &sg.WeightTierIDs,
			&sg.IncreasePercent, &sg.DecreasePercent); err != nil {
			return err
		}
		snap.Surges = append(snap.Surges, sg)
	}
	return rows.Err()
}

func loadInternational(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	rows, err := tx.Query(ctx, `
        SELECT id, city_id, min_weight, max_weight, base_price, is_flat_price
        FROM international_policies
        ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p InternationalPolicy
		if err := rows.Scan(&p.ID, &p.CityID, &p.MinWeight, &p.MaxWeight, &p.BasePrice, &p.IsFlatPrice); err != nil {
			return err
		}
		snap.International = append(snap.International, p)
	}
	return rows.Err()
}

// Replace swaps the whole rule set for snap in one transaction. Route ids are
// kept so tiers stay attached.
func (s *Store) Replace(ctx context.Context, snap *Snapshot) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            TRUNCATE TABLE international_policies, surges, vehicle_pricing, weight_tiers, distance_bands,
                vehicle_types, last_mile_policies, route_tiers, routes, package_pricing, zone_policies, offices`); err != nil {
			return err
		}

		b := &pgx.Batch{}
		for _, o := range snap.Offices {
			var lat, lng *float64
			if o.Location != nil {
				lat, lng = &o.Location.Lat, &o.Location.Lng
			}
			b.Queue(`INSERT INTO offices (id, name, lat, lng, enable_pickup, pickup_first_free_km, pickup_discount_percent,
                is_intracity_centre, intracity_radius_km) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				o.ID, o.Name, lat, lng, o.EnablePickup, o.PickupFirstFreeKm, o.PickupDiscountPercent,
				o.IsIntracityCentre, o.IntracityRadiusKm)
		}
		for _, p := range snap.ZonePolicies {
			b.Queue(`INSERT INTO zone_policies (id, office_id, disabled, radius_km, base_km, base_price, extra_price_per_km,
                max_weight, max_distance_km) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				p.ID, p.OfficeID, p.Disabled, p.RadiusKm, p.BaseKm, p.BasePrice, p.ExtraPricePerKm, p.MaxWeight, p.MaxDistanceKm)
		}
		for _, p := range snap.PackagePricing {
			b.Queue(`INSERT INTO package_pricing (id, office_id, min_weight, max_weight, min_distance, max_distance, price)
                VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				p.ID, p.OfficeID, p.MinWeight, p.MaxWeight, p.MinDistance, p.MaxDistance, p.Price)
		}
		for _, r := range snap.Routes {
			b.Queue(`INSERT INTO routes (id, office_a, office_b, size_category) VALUES ($1, $2, $3, $4)`,
				r.ID, r.OfficeA, r.OfficeB, string(r.SizeCategory))
		}
		for _, t := range snap.RouteTiers {
			b.Queue(`INSERT INTO route_tiers (id, route_id, min_weight, max_weight, price_per_kg) VALUES ($1, $2, $3, $4, $5)`,
				t.ID, t.RouteID, t.MinWeight, t.MaxWeight, t.PricePerKg)
		}
		for _, p := range snap.LastMile {
			b.Queue(`INSERT INTO last_mile_policies (office_id, free_within_km, per_km_fee) VALUES ($1, $2, $3)`,
				p.OfficeID, p.FreeWithinKm, p.PerKmFee)
		}
		for _, v := range snap.Vehicles {
			b.Queue(`INSERT INTO vehicle_types (id, name, capacity, description) VALUES ($1, $2, $3, $4)`,
				v.ID, v.Name, v.Capacity, v.Description)
		}
		for _, band := range snap.DistanceBands {
			b.Queue(`INSERT INTO distance_bands (id, name, min_km, max_km) VALUES ($1, $2, $3, $4)`,
				band.ID, band.Name, band.MinKm, band.MaxKm)
		}
		for _, w := range snap.WeightTiers {
			b.Queue(`INSERT INTO weight_tiers (id, name, min_weight, max_weight) VALUES ($1, $2, $3, $4)`,
				w.ID, w.Name, w.MinWeight, w.MaxWeight)
		}
		for _, p := range snap.VehiclePricing {
			b.Queue(`INSERT INTO vehicle_pricing (vehicle_id, band_id, weight_tier_id, base_distance, base_price, extra_per_km)
                VALUES ($1, $2, $3, $4, $5, $6)`,
				p.VehicleID, p.BandID, p.WeightTierID, p.BaseDistance, p.BasePrice, p.ExtraPerKm)
		}
		for _, sg := range snap.Surges {
			ids := sg.WeightTierIDs
			if ids == nil {
				ids = []int64{}
			}
			b.Queue(`INSERT INTO surges (id, name, active, locations, weight_tier_ids, increase_percent, decrease_percent)
                VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				sg.ID, sg.Name, sg.Active, sg.Locations, ids, sg.IncreasePercent, sg.DecreasePercent)
		}
		for _, p := range snap.International {
			b.Queue(`INSERT INTO international_policies (id, city_id, min_weight, max_weight, base_price, is_flat_price)
                VALUES ($1, $2, $3, $4, $5, $6)`,
				p.ID, p.CityID, p.MinWeight, p.MaxWeight, p.BasePrice, p.IsFlatPrice)
		}
		if b.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, b).Close()
	})
}
