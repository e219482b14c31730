package route

import (
	"context"
	"sync"

	"rateline/internal/modules/ruletable"
)

// MemoryRegistry keeps routes in process. Safe for concurrent use.
type MemoryRegistry struct {
	mu     sync.Mutex
	routes map[key]ruletable.Route
}

// NewMemoryRegistry seeds the registry with known routes, typically the ones
// declared in a rule file. Later duplicates of a pair are ignored.
func NewMemoryRegistry(seed []ruletable.Route) *MemoryRegistry {
	m := &MemoryRegistry{routes: make(map[key]ruletable.Route, len(seed))}
	for _, r := range seed {
		r.OfficeA, r.OfficeB = normalize(r.OfficeA, r.OfficeB)
		k := key{r.OfficeA, r.OfficeB, r.SizeCategory}
		if _, ok := m.routes[k]; !ok {
			m.routes[k] = r
		}
	}
	return m
}

func (m *MemoryRegistry) Upsert(ctx context.Context, r ruletable.Route) (ruletable.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{r.OfficeA, r.OfficeB, r.SizeCategory}
	if existing, ok := m.routes[k]; ok {
		return existing, nil
	}
	m.routes[k] = r
	return r, nil
}

func (m *MemoryRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.routes)
}
