package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/prayer-times-api/internal/testutils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewLimiter(t *testing.T) {
	cfg := testutils.MockConfig()
	logger := testutils.MockLogger()

	limiter := NewLimiter(cfg, logger)

	if limiter == nil {
		t.Fatal("NewLimiter() returned nil")
	}
	if limiter.Configuration != cfg {
		t.Errorf("NewLimiter() configuration = %v, want %v", limiter.Configuration, cfg)
	}
	if limiter.logger != logger {
		t.Errorf("NewLimiter() logger = %v, want %v", limiter.logger, logger)
	}
	if limiter.clients == nil {
		t.Errorf("NewLimiter() clients is nil")
	}
	if limiter.cleanupTicker == nil {
		t.Errorf("NewLimiter() cleanupTicker is nil")
	}
	if limiter.stopCleanup == nil {
		t.Errorf("NewLimiter() stopCleanup is nil")
	}
}

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name             string
		rateLimitEnabled bool
		clientIP         string
		requests         int
		expected         []bool
	}{
		{
			name:             "rate limiting disabled",
			rateLimitEnabled: false,
			clientIP:         "192.168.1.1",
			requests:         5,
			expected:         []bool{true, true, true, true, true},
		},
		{
			name:             "rate limiting enabled - within limit",
			rateLimitEnabled: true,
			clientIP:         "192.168.1.1",
			requests:         3,
			expected:         []bool{true, true, true},
		},
		{
			name:             "rate limiting enabled - exceed limit",
			rateLimitEnabled: true,
			clientIP:         "192.168.1.1",
			requests:         12, // More than burst limit (10)
			expected:         []bool{true, true, true, true, true, true, true, true, true, true, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutils.MockConfig()
			cfg.RateLimitEnabled = tt.rateLimitEnabled
			cfg.RateLimitBurst = 10
			cfg.RateLimitRequests = 100
			cfg.RateLimitWindow = 60 * time.Second

			logger := testutils.MockLogger()
			limiter := NewLimiter(cfg, logger)
			defer limiter.Stop()

			// Make requests
			for i := 0; i < tt.requests; i++ {
				result := limiter.Allow(tt.clientIP)
				expected := tt.expected[i]
				if result != expected {
					t.Errorf("Allow() request %d = %v, want %v", i, result, expected)
				}
			}
		})
	}
}

func TestLimiter_Allow_DifferentIPs(t *testing.T) {
	cfg := testutils.MockConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitBurst = 5
	cfg.RateLimitRequests = 100
	cfg.RateLimitWindow = 60 * time.Second

	logger := testutils.MockLogger()
	limiter := NewLimiter(cfg, logger)

	// Test different IPs should have separate buckets
	ip1 := "192.168.1.1"
	ip2 := "192.168.1.2"

	// Both IPs should be able to make requests within their limits
	for i := 0; i < 5; i++ {
		if !limiter.Allow(ip1) {
			t.Errorf("Allow() IP1 request %d = false, want true", i)
		}
		if !limiter.Allow(ip2) {
			t.Errorf("Allow() IP2 request %d = false, want true", i)
		}
	}

	// Both IPs should be rate limited after exceeding burst
	if limiter.Allow(ip1) {
		t.Errorf("Allow() IP1 after burst = true, want false")
	}
	if limiter.Allow(ip2) {
		t.Errorf("Allow() IP2 after burst = true, want false")
	}
}

func TestLimiter_GetClientIP(t *testing.T) {
	cfg := testutils.MockConfig()
	logger := testutils.MockLogger()
	limiter := NewLimiter(cfg, logger)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name: "X-Forwarded-For header",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.195",
			},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name: "X-Real-IP header",
			headers: map[string]string{
				"X-Real-IP": "203.0.113.195",
			},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "RemoteAddr fallback",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name: "X-Forwarded-For with port",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.195:8080",
			},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name: "X-Forwarded-For chain uses first hop",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.195, 70.41.3.18, 150.172.238.178",
			},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name: "Invalid X-Forwarded-For falls back to RemoteAddr",
			headers: map[string]string{
				"X-Forwarded-For": "invalid-ip",
			},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr

			for header, value := range tt.headers {
				req.Header.Set(header, value)
			}

			result := limiter.GetClientIP(req)
			if result != tt.expected {
				t.Errorf("GetClientIP() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLimiter_Middleware(t *testing.T) {
	cfg := testutils.MockConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitBurst = 2
	cfg.RateLimitRequests = 100
	cfg.RateLimitWindow = 60 * time.Second

	logger := testutils.MockLogger()
	limiter := NewLimiter(cfg, logger)
	defer limiter.Stop()

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	successCount := 0
	rateLimitedCount := 0

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusOK:
			successCount++
		case http.StatusTooManyRequests:
			rateLimitedCount++
			if w.Header().Get("X-RateLimit-Remaining") != "0" {
				t.Errorf("X-RateLimit-Remaining = %q, want 0", w.Header().Get("X-RateLimit-Remaining"))
			}
		default:
			t.Logf("Unexpected status code: %d", w.Code)
		}
	}

	if successCount != 2 {
		t.Errorf("Middleware() successful requests = %d, want 2", successCount)
	}
	if rateLimitedCount != 3 {
		t.Errorf("Middleware() rate limited requests = %d, want 3", rateLimitedCount)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	cfg := testutils.MockConfig()
	limiter := NewLimiter(cfg, testutils.MockLogger())
	defer limiter.Stop()

	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.2")
	if limiter.Clients() != 2 {
		t.Fatalf("Clients() = %d, want 2", limiter.Clients())
	}

	limiter.evictIdle(time.Now().Add(idleTTL / 2))
	if limiter.Clients() != 2 {
		t.Errorf("recently seen clients evicted")
	}

	limiter.evictIdle(time.Now().Add(2 * idleTTL))
	if limiter.Clients() != 0 {
		t.Errorf("Clients() after eviction = %d, want 0", limiter.Clients())
	}
}

func TestLimiter_UnlimitedWindow(t *testing.T) {
	cfg := testutils.MockConfig()
	cfg.RateLimitWindow = 0
	limiter := NewLimiter(cfg, testutils.MockLogger())
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d denied with an infinite refill rate", i)
		}
	}
}

func TestLimiter_Stop(t *testing.T) {
	cfg := testutils.MockConfig()
	logger := testutils.MockLogger()
	limiter := NewLimiter(cfg, logger)

	// Stop should not panic, even twice
	limiter.Stop()
	limiter.Stop()

	// Give cleanup goroutine time to stop
	time.Sleep(100 * time.Millisecond)
}
