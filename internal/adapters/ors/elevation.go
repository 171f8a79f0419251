// Package ors adapts the openrouteservice elevation API to the core's
// ElevationSource port.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

const (
	// The elevation/line endpoint rejects geometries above this vertex
	// count, so callers downsample to it before querying.
	maxLineVertices = 1800

	defaultBaseURL = "https://api.openrouteservice.org"
	defaultDataset = "srtm"
)

// Doer issues a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Elevation implements ports.ElevationSource against the openrouteservice
// elevation/line endpoint.
type Elevation struct {
	baseURL string
	apiKey  string
	dataset string
	doer    Doer
}

// NewElevation creates the source. baseURL and dataset fall back to the
// public API and the SRTM dataset when empty; a nil doer falls back to a
// default http.Client.
func NewElevation(baseURL, apiKey, dataset string, doer Doer) *Elevation {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if dataset == "" {
		dataset = defaultDataset
	}
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Elevation{baseURL: baseURL, apiKey: apiKey, dataset: dataset, doer: doer}
}

// MaxVertices reports the per-request vertex limit of the upstream API.
func (e *Elevation) MaxVertices() int { return maxLineVertices }

type lineRequest struct {
	FormatIn  string     `json:"format_in"`
	FormatOut string     `json:"format_out"`
	Dataset   string     `json:"dataset"`
	Geometry  lineString `json:"geometry"`
}

type lineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type lineResponse struct {
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

// LineElevations posts the points as a GeoJSON LineString and returns each
// vertex with its elevation. GeoJSON orders coordinates (lon, lat); entries
// the API returns without an elevation component are skipped.
func (e *Elevation) LineElevations(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationSample, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("%w: openrouteservice api key not configured", domain.ErrInvalidInput)
	}
	if len(points) == 0 {
		return nil, nil
	}

	coords := make([][2]float64, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	payload, err := json.Marshal(lineRequest{
		FormatIn:  "geojson",
		FormatOut: "geojson",
		Dataset:   e.dataset,
		Geometry:  lineString{Type: "LineString", Coordinates: coords},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/elevation/line", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: elevation request: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: elevation service returned status %d",
			domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var parsed lineResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode elevation response: %v", domain.ErrSourceUnavailable, err)
	}

	samples := make([]domain.ElevationSample, 0, len(parsed.Geometry.Coordinates))
	for _, c := range parsed.Geometry.Coordinates {
		if len(c) < 3 {
			continue
		}
		samples = append(samples, domain.ElevationSample{Lat: c[1], Lon: c[0], ElevationM: c[2]})
	}
	return samples, nil
}
