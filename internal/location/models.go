package location

import (
	"context"
	"errors"
)

// ErrNoMatch is returned when a query produced zero usable locations.
var ErrNoMatch = errors.New("no matching location")

// Suggestion is a candidate resolved location with coordinates and a
// structured address. Instances are immutable once built; a new query
// always produces fresh ones.
type Suggestion struct {
	ID         string            `json:"id"`
	Display    string            `json:"display"`
	Lat        float64           `json:"lat"`
	Lng        float64           `json:"lng"`
	Components map[string]string `json:"components"`
	PlaceType  string            `json:"placeType"`
}

// GeocodeResult is one raw record from the geocoding provider, reduced
// to the fields the resolver reads.
type GeocodeResult struct {
	Lat         float64
	Lng         float64
	HasGeometry bool
	Components  map[string]string
	Formatted   string
	Geohash     string
	PlaceType   string
}

// Geocoder abstracts the forward-geocoding provider (e.g. OpenCage).
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]GeocodeResult, error)
}
