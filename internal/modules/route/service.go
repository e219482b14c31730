package route

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rateline/internal/modules/ruletable"
)

type Service struct {
	registry Registry
	newID    func() string
}

func NewService(registry Registry) *Service {
	return &Service{registry: registry, newID: uuid.NewString}
}

// GetOrCreate returns the route between two offices for a size category,
// creating it on first use. Argument order does not matter.
func (s *Service) GetOrCreate(ctx context.Context, officeA, officeB int64, cat ruletable.SizeCategory) (ruletable.Route, error) {
	if !cat.Valid() {
		return ruletable.Route{}, fmt.Errorf("%w: size category %q", ErrInvalidRoute, cat)
	}
	a, b := normalize(officeA, officeB)
	return s.registry.Upsert(ctx, ruletable.Route{
		ID:           s.newID(),
		OfficeA:      a,
		OfficeB:      b,
		SizeCategory: cat,
	})
}
