package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GeocoderConfig describes the upstream geocoding provider
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
}

// CalculatorConfig describes the upstream prayer-time calculator
type CalculatorConfig struct {
	BaseURL   string
	Method    int
	School    int
	Timeout   time.Duration
	CacheSize int
}

// Config holds all configuration for the application
type Config struct {
	Port     string
	LogLevel string

	Geocoder   GeocoderConfig
	Calculator CalculatorConfig

	// Response cache for the prayer-times route. The TTL is an amount plus
	// a unit (seconds, minutes, hours, days).
	PrayerTimesCacheTTL     int
	PrayerTimesCacheTTLUnit string
	ResponseCacheSize       int

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int

	CORSAllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Geocoder: GeocoderConfig{
			BaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "prayer-times-api/1.0"),
			Timeout:   time.Duration(mustAtoi(getEnv("GEOCODER_TIMEOUT_SECONDS", "10"), 10)) * time.Second,
			CacheTTL:  time.Duration(mustAtoi(getEnv("GEOCODE_CACHE_TTL_HOURS", "24"), 24)) * time.Hour,
			CacheSize: mustAtoi(getEnv("GEOCODE_CACHE_SIZE", "1000"), 1000),
		},
		Calculator: CalculatorConfig{
			BaseURL:   getEnv("ALADHAN_BASE_URL", "https://api.aladhan.com/v1"),
			Method:    mustAtoi(getEnv("ALADHAN_METHOD", "3"), 3),
			School:    mustAtoi(getEnv("ALADHAN_SCHOOL", "0"), 0),
			Timeout:   time.Duration(mustAtoi(getEnv("ALADHAN_TIMEOUT_SECONDS", "10"), 10)) * time.Second,
			CacheSize: mustAtoi(getEnv("TIMINGS_CACHE_SIZE", "1000"), 1000),
		},

		PrayerTimesCacheTTL:     mustAtoi(getEnv("PRAYER_TIMES_CACHE_TTL", "5"), 5),
		PrayerTimesCacheTTLUnit: getEnv("PRAYER_TIMES_CACHE_TTL_UNIT", "minutes"),
		ResponseCacheSize:       mustAtoi(getEnv("RESPONSE_CACHE_SIZE", "1000"), 1000),

		RateLimitEnabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequests: mustAtoi(getEnv("RATE_LIMIT_REQUESTS", "100"), 100),
		RateLimitWindow:   time.Duration(mustAtoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"), 60)) * time.Second,
		RateLimitBurst:    mustAtoi(getEnv("RATE_LIMIT_BURST", "10"), 10),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustAtoi(s string, fallback int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return i
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
