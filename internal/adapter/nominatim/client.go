// Package nominatim implements domain.Geocoder against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/location-resolution-service/internal/domain"
	"github.com/couchcryptid/location-resolution-service/internal/observability"
)

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// userAgent identifies this service to Nominatim, which rejects requests
// without a descriptive User-Agent.
const userAgent = "DisasterResponsePlatform/1.0"

// errNotFound is retained verbatim in fallback results so operators can tell
// "provider had no candidates" from transport failures.
var errNotFound = errors.New("location not found in geocoding service")

// Client calls the Nominatim search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. Pass an empty baseURL to
// use the public instance.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Geocode resolves a place name using the first search candidate. Confidence
// is the provider's importance score when reported, domain.DefaultConfidence
// otherwise. An empty candidate list is a failure like any other; the caller
// decides how to degrade.
func (c *Client) Geocode(ctx context.Context, locationName string) (domain.GeocodingResult, error) {
	params := url.Values{
		"q":      {locationName},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("no geocoding candidates", "location", locationName)
		return domain.GeocodingResult{}, errNotFound
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}

	confidence := p.Importance
	if confidence == 0 {
		confidence = domain.DefaultConfidence
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return domain.GeocodingResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Confidence:  confidence,
	}, nil
}

// Nominatim API response types. Coordinates arrive as strings.

type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}
