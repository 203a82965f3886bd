package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocationURL(t *testing.T) {
	tests := []struct {
		base, location, want string
	}{
		{"http://localhost:8080", "London", "http://localhost:8080/prayer-times/London"},
		{"http://localhost:8080/", "New York", "http://localhost:8080/prayer-times/New%20York"},
		{"http://h", "Paris, France", "http://h/prayer-times/Paris%2C%20France"},
	}
	for _, tt := range tests {
		if got := locationURL(tt.base, tt.location); got != tt.want {
			t.Errorf("locationURL(%q, %q) = %q, want %q", tt.base, tt.location, got, tt.want)
		}
	}
}

func TestSplitLocations(t *testing.T) {
	got := splitLocations(" London, ,New York,")
	if len(got) != 2 || got[0] != "London" || got[1] != "New York" {
		t.Errorf("splitLocations() = %q", got)
	}
}

func TestProcessResults(t *testing.T) {
	results := make(chan LoadTestResult, 4)
	results <- LoadTestResult{Duration: 40 * time.Millisecond, Success: true}
	results <- LoadTestResult{Duration: 10 * time.Millisecond, Success: true, CacheHit: true}
	results <- LoadTestResult{Duration: 20 * time.Millisecond, Success: true, CacheHit: true}
	results <- LoadTestResult{Duration: 30 * time.Millisecond, Success: false}
	close(results)

	summary := processResults(results, 2*time.Second)

	if summary.TotalRequests != 4 || summary.SuccessfulRequests != 3 || summary.FailedRequests != 1 {
		t.Errorf("counts = %+v", summary)
	}
	if summary.CacheHitRatio != 50 || summary.ErrorRate != 25 {
		t.Errorf("CacheHitRatio = %v, ErrorRate = %v", summary.CacheHitRatio, summary.ErrorRate)
	}
	if summary.MinResponseTime != 10*time.Millisecond || summary.MaxResponseTime != 40*time.Millisecond {
		t.Errorf("min/max = %v/%v", summary.MinResponseTime, summary.MaxResponseTime)
	}
	if summary.AverageResponseTime != 25*time.Millisecond {
		t.Errorf("average = %v", summary.AverageResponseTime)
	}
	if summary.RequestsPerSecond != 2 {
		t.Errorf("RequestsPerSecond = %v", summary.RequestsPerSecond)
	}
}

func TestRunLoadTest(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/prayer-times/") {
			http.NotFound(w, r)
			return
		}
		if hits.Add(1) > 2 {
			w.Header().Set("X-Cache", "HIT")
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	summary := runLoadTest(context.Background(), LoadTestConfig{
		BaseURL:         server.URL,
		Locations:       []string{"London", "Mecca"},
		ConcurrentUsers: 2,
		RequestsPerUser: 5,
		Timeout:         time.Second,
	})

	if summary.TotalRequests != 10 || summary.FailedRequests != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.CacheHits != 8 {
		t.Errorf("CacheHits = %d, want 8", summary.CacheHits)
	}

	var out bytes.Buffer
	printSummary(&out, summary)
	if !strings.Contains(out.String(), "Cache Hits: 8 (80.00%)") {
		t.Errorf("summary output:\n%s", out.String())
	}
}
