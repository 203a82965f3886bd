// Package service resolves a free-text location into the full prayer-times
// response by chaining the geocoder, timezone lookup and calculator.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalfonso89/prayer-times-api/internal/calculator"
	"github.com/dalfonso89/prayer-times-api/internal/geocode"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/schedule"
	"github.com/dalfonso89/prayer-times-api/internal/status"
	"github.com/dalfonso89/prayer-times-api/internal/timezone"
)

// TimezoneLookup maps coordinates to candidate IANA zone ids
type TimezoneLookup interface {
	TimezoneIDsFor(lat, lon float64) []string
}

// Request is one prayer-times query
type Request struct {
	Location      string
	AsrAdjustment bool
	Highlight     bool
}

// Option configures a PrayerTimesService
type Option func(*PrayerTimesService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *PrayerTimesService) {
		s.now = now
	}
}

// WithTimeouts bounds each upstream stage. Zero leaves a stage unbounded.
func WithTimeouts(geocode, calculate time.Duration) Option {
	return func(s *PrayerTimesService) {
		s.geocodeTimeout = geocode
		s.calculateTimeout = calculate
	}
}

type PrayerTimesService struct {
	geocoder   geocode.Geocoder
	zones      TimezoneLookup
	calculator calculator.Calculator
	logger     *logger.Logger

	now              func() time.Time
	geocodeTimeout   time.Duration
	calculateTimeout time.Duration
}

func NewPrayerTimesService(geocoder geocode.Geocoder, zones TimezoneLookup, calc calculator.Calculator, logger *logger.Logger, opts ...Option) *PrayerTimesService {
	s := &PrayerTimesService{
		geocoder:   geocoder,
		zones:      zones,
		calculator: calc,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrayerTimes resolves req.Location and composes today's schedule there.
// Failures are returned as *ServiceError.
func (s *PrayerTimesService) GetPrayerTimes(ctx context.Context, req Request) (models.PrayerTimesResponse, error) {
	location, err := s.ResolveLocation(ctx, req.Location)
	if err != nil {
		return models.PrayerTimesResponse{}, err
	}

	loc, err := timezone.Location(location.TimezoneID)
	if err != nil {
		return models.PrayerTimesResponse{}, timezoneUnresolved(location.Coordinates.Latitude, location.Coordinates.Longitude)
	}

	now := s.now()
	localDate := now.In(loc)

	calcCtx, cancel := withTimeout(ctx, s.calculateTimeout)
	defer cancel()
	instants, err := s.calculator.Compute(calcCtx, location.Coordinates, localDate, location.TimezoneID)
	if err != nil {
		s.logger.Errorf("Prayer time calculation failed for %q: %v", req.Location, err)
		return models.PrayerTimesResponse{}, unexpected("failed to compute prayer times", err)
	}

	if req.AsrAdjustment {
		instants = schedule.AdjustAsr(instants)
	}

	resolver := schedule.NewResolver(instants, location.TimezoneID, now)
	return status.Compose(location, resolver, req.Highlight), nil
}

// ResolveLocation geocodes query and attaches its timezone. The first
// geocoding hit wins.
func (s *PrayerTimesService) ResolveLocation(ctx context.Context, query string) (models.ResolvedLocation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.ResolvedLocation{}, inputMissing()
	}

	geoCtx, cancel := withTimeout(ctx, s.geocodeTimeout)
	defer cancel()
	results, err := s.geocoder.Geocode(geoCtx, query)
	if err != nil {
		if errors.Is(err, geocode.ErrGeocodingFailed) {
			s.logger.Infof("Geocoder found no match for %q: %v", query, err)
			return models.ResolvedLocation{}, locationNotFound(query, err)
		}
		s.logger.Errorf("Geocoding %q failed: %v", query, err)
		return models.ResolvedLocation{}, unexpected("failed to geocode location", err)
	}
	if len(results) == 0 {
		return models.ResolvedLocation{}, locationNotFound(query, nil)
	}

	hit := results[0]
	if hit.Latitude == nil || hit.Longitude == nil {
		return models.ResolvedLocation{}, coordinatesUnresolved(query)
	}
	lat, lon := *hit.Latitude, *hit.Longitude
	if err := timezone.ValidateCoordinates(lat, lon); err != nil {
		return models.ResolvedLocation{}, coordinatesUnresolved(query)
	}

	zoneIDs := s.zones.TimezoneIDsFor(lat, lon)
	if len(zoneIDs) == 0 || zoneIDs[0] == "" {
		return models.ResolvedLocation{}, timezoneUnresolved(lat, lon)
	}

	return models.ResolvedLocation{
		Coordinates:      models.Coordinates{Latitude: lat, Longitude: lon},
		TimezoneID:       zoneIDs[0],
		City:             hit.City,
		Country:          hit.Country,
		CountryCode:      hit.CountryCode,
		State:            hit.State,
		FormattedAddress: hit.FormattedAddress,
		Administrative:   hit.AdministrativeLevels,
	}, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
