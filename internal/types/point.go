// README: Coordinate value type and "lat,lng" parsing.
package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrBadCoordinate = errors.New("invalid coordinate")

// coordinatePlaces is the precision stored for office and request coordinates.
const coordinatePlaces = 6

type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Lat: roundPlaces(lat, coordinatePlaces), Lng: roundPlaces(lng, coordinatePlaces)}
}

// ParseCoordinate parses a "lat,lng" pair. Request coordinates are rounded to
// five places before use, matching the precision of the routing lookups.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q is not lat,lng", ErrBadCoordinate, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude %q", ErrBadCoordinate, parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude %q", ErrBadCoordinate, parts[1])
	}
	c := Coordinate{Lat: roundPlaces(lat, 5), Lng: roundPlaces(lng, 5)}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrBadCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrBadCoordinate, c.Lng)
	}
	return nil
}

// String renders the coordinate in the "lat,lng" form accepted by routing APIs.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func roundPlaces(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
