// Package geocode resolves free-text locations to coordinates and address
// details through an upstream geocoding provider.
package geocode

import (
	"context"
	"errors"

	"github.com/dalfonso89/prayer-times-api/internal/models"
)

// ErrGeocodingFailed is returned when the provider reports that it could not
// geocode the query at all. An empty result set is not an error.
var ErrGeocodingFailed = errors.New("geocoding failed")

// Geocoder defines the interface for geocoding providers
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]models.GeoResult, error)
}
