package maps

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"googlemaps.github.io/maps"

	"rateline/internal/types"
)

// DistanceService answers road distances from the Google Distance Matrix API.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a DistanceService with the given API Key. Extra
// client options (base URL, HTTP client) are passed through.
func NewDistanceService(apiKey string, opts ...maps.ClientOption) (*DistanceService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// RoadDistance returns the driving distance in km, unrounded. A transport
// failure or a non-OK element status is an error.
func (s *DistanceService) RoadDistance(ctx context.Context, origin, destination types.Coordinate) (decimal.Decimal, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{origin.String()},
		Destinations: []string{destination.String()},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return decimal.Zero, fmt.Errorf("maps api error: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return decimal.Zero, fmt.Errorf("no route found")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return decimal.Zero, fmt.Errorf("distance matrix element status %s", el.Status)
	}
	return decimal.New(int64(el.Distance.Meters), -3), nil
}
