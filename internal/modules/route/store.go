// README: Route registry backed by PostgreSQL.
package route

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"rateline/internal/modules/ruletable"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Upsert relies on the (office_a, office_b, size_category) unique key. The
// no-op update makes RETURNING yield the existing row on conflict, so two
// concurrent first quotes agree on one id.
func (s *Store) Upsert(ctx context.Context, r ruletable.Route) (ruletable.Route, error) {
	var out ruletable.Route
	err := s.db.QueryRow(ctx, `
        INSERT INTO routes (id, office_a, office_b, size_category)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (office_a, office_b, size_category)
        DO UPDATE SET office_a = EXCLUDED.office_a
        RETURNING id, office_a, office_b, size_category`,
		r.ID, r.OfficeA, r.OfficeB, string(r.SizeCategory),
	).Scan(&out.ID, &out.OfficeA, &out.OfficeB, &out.SizeCategory)
	if err != nil {
		return ruletable.Route{}, err
	}
	return out, nil
}
