package geo

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateline/internal/modules/ruletable"
	"rateline/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: -1.2921, lng1: 36.8219,
			lat2: -1.2921, lng2: 36.8219,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "Nairobi to Mombasa (~440km)",
			lat1: -1.2921, lng1: 36.8219,
			lat2: -4.0435, lng2: 39.6682,
			wantKm:    440,
			tolerance: 10,
		},
		{
			name: "New York to Los Angeles (~3944km)",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 34.0522, lng2: -118.2437,
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(-1.0, 36.0, 0.5, 37.0)
	d2 := haversineKm(0.5, 37.0, -1.0, 36.0)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

// tableProvider answers from a fixed table keyed by "origin|destination".
type tableProvider map[string]string

func (p tableProvider) RoadDistance(ctx context.Context, a, b types.Coordinate) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	v, ok := p[a.String()+"|"+b.String()]
	if !ok {
		return decimal.Zero, errors.New("no route")
	}
	return decimal.RequireFromString(v), nil
}

func coord(lat, lng float64) types.Coordinate { return types.Coordinate{Lat: lat, Lng: lng} }

func TestResolver_WrapsProviderFailure(t *testing.T) {
	r := NewResolver(tableProvider{}, 0)
	_, err := r.RoadDistanceKm(context.Background(), coord(1, 1), coord(2, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolver_Timeout(t *testing.T) {
	slow := ProviderFunc(func(ctx context.Context, a, b types.Coordinate) (decimal.Decimal, error) {
		<-ctx.Done()
		return decimal.Zero, ctx.Err()
	})
	r := NewResolver(slow, 10*time.Millisecond)
	_, err := r.RoadDistanceKm(context.Background(), coord(1, 1), coord(2, 2))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolver_RejectsNegative(t *testing.T) {
	neg := ProviderFunc(func(ctx context.Context, a, b types.Coordinate) (decimal.Decimal, error) {
		return decimal.NewFromInt(-1), nil
	})
	_, err := NewResolver(neg, 0).RoadDistanceKm(context.Background(), coord(1, 1), coord(2, 2))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNearestOffice(t *testing.T) {
	a, b := coord(0, 0), coord(0, 1)
	offices := []ruletable.Office{
		{ID: 1, Name: "no location"},
		{ID: 2, Name: "west", Location: &a},
		{ID: 3, Name: "east", Location: &b},
	}

	got, ok := NearestOffice(coord(0, 0.9), offices)
	require.True(t, ok)
	assert.Equal(t, int64(3), got.ID)

	t.Run("tie goes to the earlier office", func(t *testing.T) {
		got, ok := NearestOffice(coord(0, 0.5), offices)
		require.True(t, ok)
		assert.Equal(t, int64(2), got.ID)
	})

	t.Run("no located office", func(t *testing.T) {
		_, ok := NearestOffice(coord(0, 0), offices[:1])
		assert.False(t, ok)
	})
}

func TestMatchZone(t *testing.T) {
	centre := coord(-1.28, 36.82)
	sender, recipient := coord(-1.3, 36.8), coord(-1.25, 36.9)
	offices := []ruletable.Office{
		{ID: 1, Name: "Nairobi", Location: &centre},
		{ID: 2, Name: "unlocated"},
	}
	provider := tableProvider{
		centre.String() + "|" + sender.String():    "12",
		centre.String() + "|" + recipient.String(): "4",
	}
	r := NewResolver(provider, 0)
	d := decimal.RequireFromString

	tests := []struct {
		name     string
		policies []ruletable.ZonePolicy
		wantID   int64
		wantErr  error
	}{
		{
			name:     "recipient within radius",
			policies: []ruletable.ZonePolicy{{ID: 10, OfficeID: 1, RadiusKm: d("5")}},
			wantID:   10,
		},
		{
			name:     "sender within radius, boundary inclusive",
			policies: []ruletable.ZonePolicy{{ID: 11, OfficeID: 1, RadiusKm: d("12")}},
			wantID:   11,
		},
		{
			name:     "neither within radius",
			policies: []ruletable.ZonePolicy{{ID: 12, OfficeID: 1, RadiusKm: d("3")}},
			wantErr:  ErrNoZone,
		},
		{
			name: "disabled policy skipped",
			policies: []ruletable.ZonePolicy{
				{ID: 13, OfficeID: 1, RadiusKm: d("50"), Disabled: true},
				{ID: 14, OfficeID: 1, RadiusKm: d("50")},
			},
			wantID: 14,
		},
		{
			name: "first matching policy wins",
			policies: []ruletable.ZonePolicy{
				{ID: 15, OfficeID: 2, RadiusKm: d("50")},
				{ID: 16, OfficeID: 1, RadiusKm: d("50")},
				{ID: 17, OfficeID: 1, RadiusKm: d("50")},
			},
			wantID: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.MatchZone(context.Background(), sender, recipient, tt.policies, offices)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestMatchZone_UnavailableCountsAsOutside(t *testing.T) {
	centre := coord(0, 0)
	offices := []ruletable.Office{{ID: 1, Location: &centre}}
	policies := []ruletable.ZonePolicy{{ID: 1, OfficeID: 1, RadiusKm: decimal.NewFromInt(100)}}

	_, err := NewResolver(tableProvider{}, 0).MatchZone(context.Background(), coord(0, 0.1), coord(0, 0.2), policies, offices)
	assert.ErrorIs(t, err, ErrNoZone)
}

func TestMatchZone_Cancelled(t *testing.T) {
	centre := coord(0, 0)
	offices := []ruletable.Office{{ID: 1, Location: &centre}}
	policies := []ruletable.ZonePolicy{{ID: 1, OfficeID: 1, RadiusKm: decimal.NewFromInt(100)}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewResolver(GeodesicProvider{}, 0).MatchZone(ctx, coord(0, 0.1), coord(0, 0.2), policies, offices)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
