// Package calculator obtains the raw daily prayer instants for a location
// from the Al Adhan timings API.
package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalfonso89/prayer-times-api/internal/config"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/observability"
	"github.com/dalfonso89/prayer-times-api/internal/schedule"
	"github.com/dalfonso89/prayer-times-api/internal/timezone"
)

const upstreamName = "aladhan"

// Calculator computes the prayer instants of one local calendar day
type Calculator interface {
	Compute(ctx context.Context, coords models.Coordinates, date time.Time, zoneID string) (schedule.Instants, error)
}

// AladhanCalculator implements Calculator over HTTP
type AladhanCalculator struct {
	configuration config.CalculatorConfig
	logger        *logger.Logger
	httpClient    *http.Client
}

// NewAladhanCalculator creates a new Al Adhan client
func NewAladhanCalculator(configuration config.CalculatorConfig, logger *logger.Logger) *AladhanCalculator {
	return &AladhanCalculator{
		configuration: configuration,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: configuration.Timeout,
		},
	}
}

type timingsResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Timings struct {
			Fajr    string `json:"Fajr"`
			Sunrise string `json:"Sunrise"`
			Dhuhr   string `json:"Dhuhr"`
			Asr     string `json:"Asr"`
			Sunset  string `json:"Sunset"`
			Maghrib string `json:"Maghrib"`
			Isha    string `json:"Isha"`
		} `json:"timings"`
	} `json:"data"`
}

// Compute fetches the timings for date at coords. The API answers in the
// wall clock of zoneID; the returned instants are UTC.
func (c *AladhanCalculator) Compute(ctx context.Context, coords models.Coordinates, date time.Time, zoneID string) (schedule.Instants, error) {
	loc, err := timezone.Location(zoneID)
	if err != nil {
		return schedule.Instants{}, fmt.Errorf("unknown timezone %q: %w", zoneID, err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 6, 64))
	params.Set("method", strconv.Itoa(c.configuration.Method))
	params.Set("school", strconv.Itoa(c.configuration.School))
	params.Set("timezonestring", zoneID)

	endpoint := fmt.Sprintf("%s/timings/%s?%s", strings.TrimRight(c.configuration.BaseURL, "/"), date.Format("02-01-2006"), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return schedule.Instants{}, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.UpstreamLatency.WithLabelValues(upstreamName).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		return schedule.Instants{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return schedule.Instants{}, fmt.Errorf("calculator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		return schedule.Instants{}, fmt.Errorf("failed to parse calculator response: %w", err)
	}
	if payload.Code != http.StatusOK {
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		return schedule.Instants{}, fmt.Errorf("calculator error: code=%d status=%s", payload.Code, payload.Status)
	}
	observability.UpstreamRequests.WithLabelValues(upstreamName, "ok").Inc()

	t := payload.Data.Timings
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	var instants schedule.Instants
	fields := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"Fajr", t.Fajr, &instants.Fajr},
		{"Sunrise", t.Sunrise, &instants.Sunrise},
		{"Dhuhr", t.Dhuhr, &instants.Dhuhr},
		{"Asr", t.Asr, &instants.Asr},
		{"Sunset", t.Sunset, &instants.Sunset},
		{"Maghrib", t.Maghrib, &instants.Maghrib},
		{"Isha", t.Isha, &instants.Isha},
	}
	for _, f := range fields {
		v, err := ParseClock(f.raw, day)
		if err != nil {
			return schedule.Instants{}, fmt.Errorf("invalid %s time: %w", f.name, err)
		}
		*f.dst = v
	}

	// High-latitude isha can fall after local midnight.
	if instants.Isha.Before(instants.Maghrib) {
		instants.Isha = instants.Isha.AddDate(0, 0, 1)
	}

	c.logger.WithComponent("aladhan").Debugf("Computed timings for %.4f,%.4f on %s in %s", coords.Latitude, coords.Longitude, day.Format("2006-01-02"), zoneID)
	return instants.UTC(), nil
}

// Method returns the configured calculation method id
func (c *AladhanCalculator) Method() int {
	return c.configuration.Method
}

// School returns the configured juristic school id
func (c *AladhanCalculator) School() int {
	return c.configuration.School
}

// ParseClock reads an "HH:MM" time, optionally followed by a zone suffix such
// as " (BST)", as a wall-clock time on day in day's location.
func ParseClock(raw string, day time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}
