package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dalfonso89/prayer-times-api/internal/cache"
	"github.com/dalfonso89/prayer-times-api/internal/config"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/middleware"
	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/ratelimit"
	"github.com/dalfonso89/prayer-times-api/internal/service"
)

// PrayerTimesService is the computation behind the prayer-times routes
type PrayerTimesService interface {
	GetPrayerTimes(ctx context.Context, req service.Request) (models.PrayerTimesResponse, error)
}

// Route describes one statically registered endpoint. A non-nil Cache
// memoizes the handler's successful responses.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Cache   *cache.ResponseCache
}

// Handlers contains all HTTP handlers
type Handlers struct {
	prayerTimes   PrayerTimesService
	configuration *config.Config
	logger        *logger.Logger
	version       string
	startTime     time.Time

	prayerTimesCache *cache.ResponseCache
	rateLimiter      *ratelimit.Limiter
	cacheSizes       map[string]func() int
}

// NewHandlers creates a new handlers instance
func NewHandlers(prayerTimes PrayerTimesService, configuration *config.Config, logger *logger.Logger, version string) *Handlers {
	return &Handlers{
		prayerTimes:   prayerTimes,
		configuration: configuration,
		logger:        logger,
		version:       version,
		startTime:     time.Now(),
		cacheSizes:    make(map[string]func() int),
	}
}

// WithPrayerTimesCache memoizes the prayer-times routes in rc
func (handlers *Handlers) WithPrayerTimesCache(rc *cache.ResponseCache) *Handlers {
	handlers.prayerTimesCache = rc
	return handlers.WithCacheSize("prayer_times_responses", rc.Len)
}

// WithRateLimit attaches the rate limiter after initialization
func (handlers *Handlers) WithRateLimit(rateLimiter *ratelimit.Limiter) *Handlers {
	handlers.rateLimiter = rateLimiter
	return handlers
}

// WithCacheSize reports size under name in the health check
func (handlers *Handlers) WithCacheSize(name string, size func() int) *Handlers {
	handlers.cacheSizes[name] = size
	return handlers
}

// Routes returns the route table
func (handlers *Handlers) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Handler: handlers.HealthCheck},
		{Method: http.MethodGet, Path: "/metrics", Handler: gin.WrapH(promhttp.Handler())},
		{Method: http.MethodGet, Path: "/prayer-times", Handler: handlers.GetPrayerTimes, Cache: handlers.prayerTimesCache},
		{Method: http.MethodGet, Path: "/prayer-times/:location", Handler: handlers.GetPrayerTimes, Cache: handlers.prayerTimesCache},
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(handlers.corsMiddleware())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimiter.Middleware())
	}

	for _, route := range handlers.Routes() {
		chain := []gin.HandlerFunc{route.Handler}
		if route.Cache != nil {
			chain = append([]gin.HandlerFunc{route.Cache.Middleware()}, chain...)
		}
		router.Handle(route.Method, route.Path, chain...)
	}

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	caches := make(map[string]int, len(handlers.cacheSizes))
	for name, size := range handlers.cacheSizes {
		caches[name] = size()
	}

	context.JSON(http.StatusOK, models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   handlers.version,
		Uptime:    time.Since(handlers.startTime).Round(time.Second).String(),
		Caches:    caches,
	})
}

// GetPrayerTimes serves both the path and the query form of the endpoint
func (handlers *Handlers) GetPrayerTimes(context *gin.Context) {
	request := service.Request{
		Location:      ExtractLocation(context),
		AsrAdjustment: queryFlag(context, "asr_adjustment"),
		Highlight:     queryFlag(context, "highlight"),
	}

	response, err := handlers.prayerTimes.GetPrayerTimes(context.Request.Context(), request)
	if err != nil {
		handlers.writeServiceError(context, err)
		return
	}

	context.JSON(http.StatusOK, response)
}

// writeServiceError maps service error kinds onto status codes
func (handlers *Handlers) writeServiceError(context *gin.Context, err error) {
	var serviceError *service.ServiceError
	if errors.As(err, &serviceError) && serviceError.Kind.IsClientError() {
		handlers.writeErrorResponse(context, http.StatusBadRequest, models.ErrorResponse{
			Error:       serviceError.Message,
			Description: serviceError.Description,
		})
		return
	}

	handlers.logger.Errorf("Prayer times request failed: %v", err)
	handlers.writeErrorResponse(context, http.StatusInternalServerError, models.ErrorResponse{
		Error:   "Internal server error",
		Message: err.Error(),
	})
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorResponse models.ErrorResponse) {
	context.JSON(statusCode, errorResponse)
}

// corsMiddleware allows the configured origins; "*" allows any
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(handlers.configuration.CORSAllowedOrigins))
	for _, origin := range handlers.configuration.CORSAllowedOrigins {
		allowed[origin] = true
	}
	allowAll := len(allowed) == 0 || allowed["*"]

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return allowAll || allowed[origin] },
		AllowMethods:    []string{http.MethodGet, http.MethodOptions, http.MethodHead},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID", "X-Cache"},
		MaxAge:          12 * time.Hour,
	})
}

func queryFlag(context *gin.Context, name string) bool {
	value, err := strconv.ParseBool(context.Query(name))
	return err == nil && value
}
