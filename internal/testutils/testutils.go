package testutils

import (
	"context"
	"io"
	"time"

	"github.com/dalfonso89/prayer-times-api/internal/config"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/models"
)

// MockLogger creates a logger for testing that discards its output
func MockLogger() *logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a mock configuration for testing. Upstream URLs point
// nowhere; tests replace them with mock server URLs.
func MockConfig() *config.Config {
	return &config.Config{
		Port:     "8081",
		LogLevel: "debug",

		Geocoder: config.GeocoderConfig{
			BaseURL:   "http://geocoder.invalid",
			UserAgent: "prayer-times-api-test",
			Timeout:   5 * time.Second,
			CacheTTL:  time.Hour,
			CacheSize: 100,
		},
		Calculator: config.CalculatorConfig{
			BaseURL:   "http://aladhan.invalid",
			Method:    3,
			School:    0,
			Timeout:   5 * time.Second,
			CacheSize: 100,
		},

		PrayerTimesCacheTTL:     5,
		PrayerTimesCacheTTLUnit: "minutes",
		ResponseCacheSize:       100,

		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,

		CORSAllowedOrigins: []string{"*"},
	}
}

// MockContextWithTimeout creates a mock context with timeout for testing
func MockContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// LondonResult is the geocoding hit for London used across tests
func LondonResult() models.GeoResult {
	return models.GeoResult{
		Latitude:         Float(51.5074),
		Longitude:        Float(-0.1278),
		City:             "London",
		Country:          "United Kingdom",
		CountryCode:      "GB",
		State:            "England",
		FormattedAddress: "London, Greater London, England, United Kingdom",
		AdministrativeLevels: models.AdministrativeLevels{
			Level1Short: "ENG",
			Level1Long:  "England",
		},
	}
}

// NewYorkResult is the geocoding hit for New York used across tests
func NewYorkResult() models.GeoResult {
	return models.GeoResult{
		Latitude:         Float(40.7128),
		Longitude:        Float(-74.0060),
		City:             "New York",
		Country:          "United States",
		CountryCode:      "US",
		State:            "New York",
		FormattedAddress: "New York, United States",
		AdministrativeLevels: models.AdministrativeLevels{
			Level1Short: "NY",
			Level1Long:  "New York",
		},
	}
}
