package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
)

// GeoJSONFetcher downloads the state boundary FeatureCollection and extracts
// the display name of every feature. Geometry is ignored.
type GeoJSONFetcher struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewGeoJSONFetcher(client *http.Client, url string) *GeoJSONFetcher {
	return &GeoJSONFetcher{
		url: url,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newBreaker("geojson"),
	}
}

func (f *GeoJSONFetcher) FeatureNames(ctx context.Context) ([]string, error) {
	resp, err := doRequestWithResilience(ctx, f.httpCfg, f.circuit, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Type     string `json:"type"`
		Features []struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if payload.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode geojson: expected FeatureCollection, got %q", payload.Type)
	}

	names := make([]string, 0, len(payload.Features))
	for _, feat := range payload.Features {
		if name := strings.TrimSpace(feat.Properties.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
