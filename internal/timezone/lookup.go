package timezone

import (
	"errors"

	"github.com/ringsaturn/tzf"
)

// ErrInvalidCoordinates is returned for latitude/longitude outside the globe.
var ErrInvalidCoordinates = errors.New("timezone: invalid coordinates")

// Lookup resolves IANA zone ids from coordinates using tzf polygon data.
type Lookup struct {
	finder tzf.F
}

// NewLookup loads the default tzf dataset.
func NewLookup() (*Lookup, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, err
	}
	return &Lookup{finder: finder}, nil
}

// TimezoneIDsFor returns the zone ids covering lat/lon. The result is empty
// when the point falls outside every polygon or is not a valid coordinate.
func (l *Lookup) TimezoneIDsFor(lat, lon float64) []string {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil
	}
	name := l.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return nil
	}
	return []string{name}
}

// ValidateCoordinates reports whether lat/lon lie on the globe.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
