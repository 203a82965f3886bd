package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// NominatimPlace is one entry of a mock Nominatim search response
type NominatimPlace struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// MockGeocoderServer serves Nominatim-style /search responses keyed by the
// lowercased query
type MockGeocoderServer struct {
	server   *httptest.Server
	mu       sync.RWMutex
	places   map[string][]NominatimPlace
	requests atomic.Int64
	status   atomic.Int64
}

// NewMockGeocoderServer creates a geocoder mock knowing London and New York
func NewMockGeocoderServer() *MockGeocoderServer {
	mock := &MockGeocoderServer{places: make(map[string][]NominatimPlace)}
	mock.SetupDefaultResponses()
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

// SetupDefaultResponses registers the default places
func (m *MockGeocoderServer) SetupDefaultResponses() {
	london := []NominatimPlace{{
		Lat:         "51.5074",
		Lon:         "-0.1278",
		DisplayName: "London, Greater London, England, United Kingdom",
		Address: map[string]string{
			"city":           "London",
			"state":          "England",
			"ISO3166-2-lvl4": "GB-ENG",
			"country":        "United Kingdom",
			"country_code":   "gb",
		},
	}}
	m.SetPlaces("london", london)
	m.SetPlaces("london, uk", london)
	m.SetPlaces("new york", []NominatimPlace{{
		Lat:         "40.7128",
		Lon:         "-74.0060",
		DisplayName: "New York, United States",
		Address: map[string]string{
			"city":           "New York",
			"state":          "New York",
			"ISO3166-2-lvl4": "US-NY",
			"country":        "United States",
			"country_code":   "us",
		},
	}})
	m.SetPlaces("atlantis", []NominatimPlace{{
		DisplayName: "Atlantis",
		Address:     map[string]string{"country": "Nowhere"},
	}})
}

func (m *MockGeocoderServer) handler(w http.ResponseWriter, r *http.Request) {
	m.requests.Add(1)
	if status := int(m.status.Load()); status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if r.URL.Path != "/search" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	m.mu.RLock()
	places, ok := m.places[query]
	m.mu.RUnlock()
	if !ok {
		places = []NominatimPlace{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(places)
}

// SetPlaces sets the response for a lowercased query
func (m *MockGeocoderServer) SetPlaces(query string, places []NominatimPlace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places[query] = places
}

// FailWith makes every following request answer with status. Zero restores
// normal behaviour.
func (m *MockGeocoderServer) FailWith(status int) {
	m.status.Store(int64(status))
}

// Requests returns how many requests the server has received
func (m *MockGeocoderServer) Requests() int {
	return int(m.requests.Load())
}

// URL returns the mock server URL
func (m *MockGeocoderServer) URL() string {
	return m.server.URL
}

// Close closes the mock server
func (m *MockGeocoderServer) Close() {
	m.server.Close()
}

// DefaultTimings are the wall-clock times served by MockAladhanServer
var DefaultTimings = map[string]string{
	"Fajr":    "04:30",
	"Sunrise": "06:00",
	"Dhuhr":   "12:30",
	"Asr":     "16:00",
	"Sunset":  "19:00",
	"Maghrib": "19:05",
	"Isha":    "20:30",
}

// MockAladhanServer serves Al Adhan style /timings/{date} responses
type MockAladhanServer struct {
	server   *httptest.Server
	mu       sync.RWMutex
	timings  map[string]string
	suffix   string
	requests atomic.Int64
	status   atomic.Int64

	lastQuery atomic.Value
}

// NewMockAladhanServer creates a calculator mock serving DefaultTimings
func NewMockAladhanServer() *MockAladhanServer {
	mock := &MockAladhanServer{timings: make(map[string]string)}
	mock.SetTimings(DefaultTimings)
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

func (m *MockAladhanServer) handler(w http.ResponseWriter, r *http.Request) {
	m.requests.Add(1)
	m.lastQuery.Store(r.URL.RawQuery)
	if status := int(m.status.Load()); status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !strings.HasPrefix(r.URL.Path, "/timings/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	m.mu.RLock()
	timings := make(map[string]string, len(m.timings))
	for name, clock := range m.timings {
		timings[name] = clock + m.suffix
	}
	m.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":   200,
		"status": "OK",
		"data": map[string]interface{}{
			"timings": timings,
			"date":    map[string]string{"readable": strings.TrimPrefix(r.URL.Path, "/timings/")},
		},
	})
}

// SetTimings replaces the served wall-clock times
func (m *MockAladhanServer) SetTimings(timings map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, clock := range timings {
		m.timings[name] = clock
	}
}

// SetZoneSuffix appends suffix, e.g. " (BST)", to every served time
func (m *MockAladhanServer) SetZoneSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

// FailWith makes every following request answer with status. Zero restores
// normal behaviour.
func (m *MockAladhanServer) FailWith(status int) {
	m.status.Store(int64(status))
}

// Requests returns how many requests the server has received
func (m *MockAladhanServer) Requests() int {
	return int(m.requests.Load())
}

// LastQuery returns the raw query string of the most recent request
func (m *MockAladhanServer) LastQuery() string {
	q, _ := m.lastQuery.Load().(string)
	return q
}

// URL returns the mock server URL
func (m *MockAladhanServer) URL() string {
	return m.server.URL
}

// Close closes the mock server
func (m *MockAladhanServer) Close() {
	m.server.Close()
}
