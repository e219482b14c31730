// README: Inter-county route identity: one route per unordered office pair and size category.
package route

import (
	"context"
	"errors"

	"rateline/internal/modules/ruletable"
)

var ErrInvalidRoute = errors.New("invalid route")

// Registry persists routes. Upsert stores r unless a route with the same
// (OfficeA, OfficeB, SizeCategory) exists, and returns whichever is stored.
// r is always normalized so OfficeA <= OfficeB.
type Registry interface {
	Upsert(ctx context.Context, r ruletable.Route) (ruletable.Route, error)
}

type key struct {
	a, b int64
	cat  ruletable.SizeCategory
}

// normalize orders the pair so (A,B) and (B,A) share one identity.
func normalize(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
