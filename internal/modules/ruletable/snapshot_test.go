package ruletable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_RouteFor(t *testing.T) {
	snap := &Snapshot{Routes: []Route{
		{ID: "a", OfficeA: 1, OfficeB: 2, SizeCategory: SizeParcel},
		{ID: "b", OfficeA: 1, OfficeB: 2, SizeCategory: SizePackage},
		{ID: "c", OfficeA: 2, OfficeB: 1, SizeCategory: SizeParcel},
	}}

	tests := []struct {
		name   string
		a, b   int64
		cat    SizeCategory
		wantID string
		wantOK bool
	}{
		{"declared order", 1, 2, SizeParcel, "a", true},
		{"reversed pair", 2, 1, SizeParcel, "a", true},
		{"category", 2, 1, SizePackage, "b", true},
		{"unknown pair", 1, 3, SizeParcel, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := snap.RouteFor(tt.a, tt.b, tt.cat)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, r.ID)
		})
	}
}
