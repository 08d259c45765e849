// Package hydroapi provides a client for the assistant backend's map data
// endpoints.
package hydroapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/watersight/watersight/internal/mapdata"
	"github.com/watersight/watersight/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the backend API.
	DefaultBaseURL = "http://localhost:8000"

	// ProviderName identifies this provider.
	ProviderName = "hydroapi"
)

// ClientConfig holds configuration for the backend map data client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches sublocation boundaries and water points from the backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new backend map data client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         cfg.Timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchFeatures retrieves the sublocation boundaries with their
// accessibility attributes.
func (c *Client) FetchFeatures(ctx context.Context) ([]mapdata.Feature, error) {
	fc, err := c.fetchCollection(ctx, "/api/default-map-data")
	if err != nil {
		return nil, fmt.Errorf("fetch map data: %w", err)
	}

	features := make([]mapdata.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, toFeature(f))
	}
	return features, nil
}

// FetchWaterPoints retrieves the water points.
func (c *Client) FetchWaterPoints(ctx context.Context) ([]mapdata.WaterPoint, error) {
	fc, err := c.fetchCollection(ctx, "/api/water-points")
	if err != nil {
		return nil, fmt.Errorf("fetch water points: %w", err)
	}

	points := make([]mapdata.WaterPoint, 0, len(fc.Features))
	for _, f := range fc.Features {
		if wp, ok := toWaterPoint(f); ok {
			points = append(points, wp)
		}
	}
	return points, nil
}

// FetchSnapshot fetches a complete map data snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*mapdata.Snapshot, error) {
	features, err := c.FetchFeatures(ctx)
	if err != nil {
		return nil, err
	}

	waterPoints, err := c.FetchWaterPoints(ctx)
	if err != nil {
		return nil, err
	}

	return &mapdata.Snapshot{
		Features:    features,
		WaterPoints: waterPoints,
		FetchedAt:   time.Now(),
		Provider:    ProviderName,
	}, nil
}

// fetchCollection GETs a GeoJSON FeatureCollection from the backend.
func (c *Client) fetchCollection(ctx context.Context, path string) (*geojson.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return fc, nil
}

// toFeature converts a GeoJSON feature to the domain Feature.
func toFeature(f *geojson.Feature) mapdata.Feature {
	return mapdata.Feature{
		Name:          propString(f.Properties, "name"),
		Accessibility: propFloat(f.Properties, "accessibility"),
		Population:    int(propFloat(f.Properties, "population")),
		Category:      propString(f.Properties, "category"),
		Geometry:      f.Geometry,
	}
}

// toWaterPoint converts a GeoJSON point feature to the domain WaterPoint.
// Non-point geometries are skipped.
func toWaterPoint(f *geojson.Feature) (mapdata.WaterPoint, bool) {
	point, ok := f.Geometry.(orb.Point)
	if !ok {
		return mapdata.WaterPoint{}, false
	}

	capacity := int(propFloat(f.Properties, "capacity_score"))
	if capacity == 0 {
		capacity = 1
	}

	return mapdata.WaterPoint{
		Name:          propStringDefault(f.Properties, "name", "Unknown"),
		WaterSource:   propStringDefault(f.Properties, "water_source", "Unknown"),
		CapacityScore: capacity,
		Status:        propStringDefault(f.Properties, "status", "Unknown"),
		Position:      point,
	}, true
}

func propString(p geojson.Properties, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func propStringDefault(p geojson.Properties, key, def string) string {
	if v := propString(p, key); v != "" {
		return v
	}
	return def
}

func propFloat(p geojson.Properties, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}
