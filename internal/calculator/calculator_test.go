package calculator

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalfonso89/prayer-times-api/internal/config"
	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/testutils"
)

var london = models.Coordinates{Latitude: 51.5074, Longitude: -0.1278}

func newTestCalculator(baseURL string) *AladhanCalculator {
	return NewAladhanCalculator(config.CalculatorConfig{
		BaseURL: baseURL,
		Method:  3,
		School:  1,
		Timeout: 5 * time.Second,
	}, testutils.MockLogger())
}

func TestAladhanCalculator_Compute(t *testing.T) {
	server := testutils.NewMockAladhanServer()
	defer server.Close()
	server.SetZoneSuffix(" (BST)")

	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	instants, err := newTestCalculator(server.URL()).Compute(context.Background(), london, date, "Europe/London")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// BST is UTC+1 in June.
	want := map[string]time.Time{
		"fajr":    time.Date(2024, 6, 15, 3, 30, 0, 0, time.UTC),
		"dhuhr":   time.Date(2024, 6, 15, 11, 30, 0, 0, time.UTC),
		"asr":     time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC),
		"sunset":  time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC),
		"maghrib": time.Date(2024, 6, 15, 18, 5, 0, 0, time.UTC),
		"isha":    time.Date(2024, 6, 15, 19, 30, 0, 0, time.UTC),
	}
	got := map[string]time.Time{
		"fajr":    instants.Fajr,
		"dhuhr":   instants.Dhuhr,
		"asr":     instants.Asr,
		"sunset":  instants.Sunset,
		"maghrib": instants.Maghrib,
		"isha":    instants.Isha,
	}
	for name, w := range want {
		if !got[name].Equal(w) {
			t.Errorf("%s = %v, want %v", name, got[name], w)
		}
		if got[name].Location() != time.UTC {
			t.Errorf("%s not in UTC: %v", name, got[name].Location())
		}
	}

	query, err := url.ParseQuery(server.LastQuery())
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	if query.Get("method") != "3" || query.Get("school") != "1" || query.Get("timezonestring") != "Europe/London" {
		t.Errorf("unexpected query %v", query)
	}
	calc := newTestCalculator(server.URL())
	if calc.Method() != 3 || calc.School() != 1 {
		t.Errorf("Method(), School() = %d, %d; want 3, 1", calc.Method(), calc.School())
	}
	if !strings.HasPrefix(query.Get("latitude"), "51.5074") {
		t.Errorf("latitude = %q", query.Get("latitude"))
	}
}

func TestAladhanCalculator_IshaAfterMidnight(t *testing.T) {
	server := testutils.NewMockAladhanServer()
	defer server.Close()
	server.SetTimings(map[string]string{"Maghrib": "22:10", "Isha": "00:40"})

	date := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	instants, err := newTestCalculator(server.URL()).Compute(context.Background(), london, date, "Europe/London")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := time.Date(2024, 6, 20, 23, 40, 0, 0, time.UTC)
	if !instants.Isha.Equal(want) {
		t.Errorf("Isha = %v, want %v", instants.Isha, want)
	}
}

func TestAladhanCalculator_Errors(t *testing.T) {
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("upstream status", func(t *testing.T) {
		server := testutils.NewMockAladhanServer()
		defer server.Close()
		server.FailWith(http.StatusBadGateway)

		if _, err := newTestCalculator(server.URL()).Compute(context.Background(), london, date, "Europe/London"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed time", func(t *testing.T) {
		server := testutils.NewMockAladhanServer()
		defer server.Close()
		server.SetTimings(map[string]string{"Asr": "late"})

		_, err := newTestCalculator(server.URL()).Compute(context.Background(), london, date, "Europe/London")
		if err == nil || !strings.Contains(err.Error(), "Asr") {
			t.Errorf("error = %v, want one naming Asr", err)
		}
	})

	t.Run("unknown zone", func(t *testing.T) {
		server := testutils.NewMockAladhanServer()
		defer server.Close()

		if _, err := newTestCalculator(server.URL()).Compute(context.Background(), london, date, "Mars/Olympus"); err == nil {
			t.Error("expected error")
		}
		if server.Requests() != 0 {
			t.Errorf("upstream called for an unknown zone")
		}
	})
}

func TestParseClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, ny)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"05:42", time.Date(2024, 1, 10, 5, 42, 0, 0, ny), false},
		{"17:05 (EST)", time.Date(2024, 1, 10, 17, 5, 0, 0, ny), false},
		{" 00:00 ", time.Date(2024, 1, 10, 0, 0, 0, 0, ny), false},
		{"25:00", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseClock(tt.raw, day)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseClock() = %v, want %v", got, tt.want)
			}
		})
	}
}
