package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dalfonso89/prayer-times-api/internal/config"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
)

// idleTTL is how long a client may stay silent before its bucket is dropped.
const idleTTL = 30 * time.Minute

// Limiter implements a token bucket rate limiter per IP
type Limiter struct {
	Configuration *config.Config
	logger        *logger.Logger

	// Map of IP -> token bucket
	clients      map[string]*client
	clientsMutex sync.Mutex

	// Cleanup goroutine control
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a new rate limiter
func NewLimiter(configuration *config.Config, logger *logger.Logger) *Limiter {
	rateLimiter := &Limiter{
		Configuration: configuration,
		logger:        logger,
		clients:       make(map[string]*client),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCleanup:   make(chan struct{}),
	}

	go rateLimiter.cleanup()

	return rateLimiter
}

// refillRate converts "requests per window" into tokens per second.
func (rateLimiter *Limiter) refillRate() rate.Limit {
	window := rateLimiter.Configuration.RateLimitWindow
	if window <= 0 || rateLimiter.Configuration.RateLimitRequests <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(rateLimiter.Configuration.RateLimitRequests) / window.Seconds())
}

// Allow checks if a request from the given IP is allowed
func (rateLimiter *Limiter) Allow(clientIP string) bool {
	if !rateLimiter.Configuration.RateLimitEnabled {
		return true
	}

	rateLimiter.clientsMutex.Lock()
	c, ok := rateLimiter.clients[clientIP]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rateLimiter.refillRate(), rateLimiter.Configuration.RateLimitBurst)}
		rateLimiter.clients[clientIP] = c
	}
	c.lastSeen = time.Now()
	rateLimiter.clientsMutex.Unlock()

	return c.limiter.Allow()
}

// Middleware rejects requests over the per-IP limit with 429
func (rateLimiter *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := rateLimiter.GetClientIP(c.Request)

		if !rateLimiter.Allow(clientIP) {
			rateLimiter.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			c.Header("X-RateLimit-Limit", strconv.Itoa(rateLimiter.Configuration.RateLimitRequests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rateLimiter.Configuration.RateLimitWindow).Unix(), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// GetClientIP extracts the real client IP from the request
func (rateLimiter *Limiter) GetClientIP(request *http.Request) string {
	// X-Forwarded-For may carry a chain; the first hop is the client.
	if xForwardedFor := request.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		first := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if clientIP := parseHost(first); clientIP != "" {
			return clientIP
		}
	}

	if xRealIP := request.Header.Get("X-Real-IP"); xRealIP != "" {
		if clientIP := parseHost(strings.TrimSpace(xRealIP)); clientIP != "" {
			return clientIP
		}
	}

	clientIP, _, parseError := net.SplitHostPort(request.RemoteAddr)
	if parseError != nil {
		return request.RemoteAddr
	}
	return clientIP
}

func parseHost(value string) string {
	if ip := net.ParseIP(value); ip != nil {
		return ip.String()
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip.String()
		}
	}
	return ""
}

// Clients returns the number of tracked client buckets
func (rateLimiter *Limiter) Clients() int {
	rateLimiter.clientsMutex.Lock()
	defer rateLimiter.clientsMutex.Unlock()
	return len(rateLimiter.clients)
}

// cleanup removes idle buckets to prevent memory leaks
func (rateLimiter *Limiter) cleanup() {
	for {
		select {
		case <-rateLimiter.cleanupTicker.C:
			rateLimiter.evictIdle(time.Now())
		case <-rateLimiter.stopCleanup:
			rateLimiter.cleanupTicker.Stop()
			return
		}
	}
}

func (rateLimiter *Limiter) evictIdle(now time.Time) {
	rateLimiter.clientsMutex.Lock()
	defer rateLimiter.clientsMutex.Unlock()
	for clientIP, c := range rateLimiter.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(rateLimiter.clients, clientIP)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rateLimiter *Limiter) Stop() {
	rateLimiter.stopOnce.Do(func() {
		close(rateLimiter.stopCleanup)
	})
}
