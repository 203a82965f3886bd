// Package app wires configuration, collaborators, caches and handlers into
// a runnable prayer-times service.
package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/prayer-times-api/internal/api"
	"github.com/dalfonso89/prayer-times-api/internal/cache"
	"github.com/dalfonso89/prayer-times-api/internal/calculator"
	"github.com/dalfonso89/prayer-times-api/internal/config"
	"github.com/dalfonso89/prayer-times-api/internal/geocode"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/ratelimit"
	"github.com/dalfonso89/prayer-times-api/internal/schedule"
	"github.com/dalfonso89/prayer-times-api/internal/service"
	"github.com/dalfonso89/prayer-times-api/internal/timezone"
)

// timingsTTL bounds how long a computed day is reused.
const timingsTTL = 24 * time.Hour

// Option configures New
type Option func(*options)

type options struct {
	now   func() time.Time
	zones service.TimezoneLookup
}

// WithClock replaces time.Now for the service and every cache
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTimezoneLookup replaces the polygon-based timezone lookup
func WithTimezoneLookup(zones service.TimezoneLookup) Option {
	return func(o *options) {
		o.zones = zones
	}
}

// App owns the long-lived objects of one process
type App struct {
	Config      *config.Config
	Logger      *logger.Logger
	Service     *service.PrayerTimesService
	Handlers    *api.Handlers
	RateLimiter *ratelimit.Limiter

	Geocoder   *geocode.CachedGeocoder
	Calculator *calculator.CachedCalculator
	Responses  *cache.ResponseCache
}

// New builds the application from cfg
func New(cfg *config.Config, log *logger.Logger, version string, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	clock := cache.WithClock(o.now)

	if o.zones == nil {
		lookup, err := timezone.NewLookup()
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone data: %w", err)
		}
		o.zones = lookup
	}

	geocodeStore, err := cache.NewStore[[]models.GeoResult]("geocode", cfg.Geocoder.CacheSize, cfg.Geocoder.CacheTTL, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode cache: %w", err)
	}
	geocoder := geocode.NewCachedGeocoder(geocode.NewNominatimGeocoder(cfg.Geocoder, log), geocodeStore, cfg.Geocoder.Timeout, log)

	timingsStore, err := cache.NewStore[schedule.Instants]("timings", cfg.Calculator.CacheSize, timingsTTL, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create timings cache: %w", err)
	}
	aladhan := calculator.NewAladhanCalculator(cfg.Calculator, log)
	calc := calculator.NewCachedCalculator(aladhan, aladhan.Method(), aladhan.School(), cfg.Calculator.Timeout, timingsStore)

	responses, err := cache.NewResponseCache(
		"prayer_times",
		cfg.ResponseCacheSize,
		cache.TTL{Amount: cfg.PrayerTimesCacheTTL, Unit: cfg.PrayerTimesCacheTTLUnit},
		api.PrayerTimesCacheKey,
		log,
		clock,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}

	log.WithFields(logger.Fields{
		"geocode_ttl":  geocodeStore.TTL().String(),
		"timings_ttl":  timingsStore.TTL().String(),
		"response_ttl": responses.TTL().String(),
		"method":       aladhan.Method(),
		"school":       aladhan.School(),
	}).Info("Caches configured")

	svc := service.NewPrayerTimesService(geocoder, o.zones, calc, log,
		service.WithClock(o.now),
		service.WithTimeouts(cfg.Geocoder.Timeout, cfg.Calculator.Timeout),
	)

	rateLimiter := ratelimit.NewLimiter(cfg, log)
	handlers := api.NewHandlers(svc, cfg, log, version).
		WithPrayerTimesCache(responses).
		WithCacheSize("geocode", geocoder.Len).
		WithCacheSize("timings", calc.Len)
	if cfg.RateLimitEnabled {
		handlers.WithRateLimit(rateLimiter)
	}

	return &App{
		Config:      cfg,
		Logger:      log,
		Service:     svc,
		Handlers:    handlers,
		RateLimiter: rateLimiter,
		Geocoder:    geocoder,
		Calculator:  calc,
		Responses:   responses,
	}, nil
}

// Router builds the gin engine
func (a *App) Router() *gin.Engine {
	return a.Handlers.SetupRoutes()
}

// Close releases background resources
func (a *App) Close() {
	a.RateLimiter.Stop()
}
