package geocode

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
)

const upstreamName = "nominatim"

// NominatimGeocoder implements Geocoder against the Nominatim search API
type NominatimGeocoder struct {
	configuration config.GeocoderConfig
	logger        *logger.Logger
	httpClient    *http.Client
}

// NewNominatimGeocoder creates a new Nominatim geocoder
func NewNominatimGeocoder(configuration config.GeocoderConfig, logger *logger.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		configuration: configuration,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: configuration.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type nominatimPlace struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	ISOLevel4    string `json:"ISO3166-2-lvl4"`
	ISOLevel6    string `json:"ISO3166-2-lvl6"`
}

// Geocode searches the provider for query
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) ([]models.GeoResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")

	endpoint := strings.TrimRight(g.configuration.BaseURL, "/") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.configuration.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	observability.UpstreamLatency.WithLabelValues(upstreamName).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		observability.UpstreamRequests.WithLabelValues(upstreamName, "not_found").Inc()
		return nil, fmt.Errorf("%w: provider returned status %d", ErrGeocodingFailed, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		observability.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		return nil, fmt.Errorf("failed to parse geocoder response: %w", err)
	}
	observability.UpstreamRequests.WithLabelValues(upstreamName, "ok").Inc()

	results := make([]models.GeoResult, 0, len(places))
	for _, place := range places {
		results = append(results, place.toResult())
	}
	g.logger.WithComponent("nominatim").Debugf("Geocoded %q to %d result(s)", query, len(results))
	return results, nil
}

func (p nominatimPlace) toResult() models.GeoResult {
	a := p.Address
	return models.GeoResult{
		Latitude:         parseCoordinate(p.Lat),
		Longitude:        parseCoordinate(p.Lon),
		City:             firstNonEmpty(a.City, a.Town, a.Village, a.Municipality),
		Country:          a.Country,
		CountryCode:      strings.ToUpper(a.CountryCode),
		State:            a.State,
		FormattedAddress: p.DisplayName,
		AdministrativeLevels: models.AdministrativeLevels{
			Level1Short: subdivisionCode(a.ISOLevel4),
			Level1Long:  a.State,
			Level2Short: subdivisionCode(a.ISOLevel6),
			Level2Long:  a.County,
		},
	}
}

// parseCoordinate returns nil when the provider sent no usable number.
func parseCoordinate(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// subdivisionCode strips the country prefix from an ISO 3166-2 code,
// "US-NY" -> "NY".
func subdivisionCode(iso string) string {
	if i := strings.IndexByte(iso, '-'); i >= 0 {
		return iso[i+1:]
	}
	return iso
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
