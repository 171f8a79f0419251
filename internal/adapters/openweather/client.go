// Package openweather adapts the OpenWeather current-weather API to the
// core's WeatherSource port.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jwoopark/trailhead/internal/core/domain"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Doer issues a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.WeatherSource against the OpenWeather
// current-weather endpoint.
type Client struct {
	baseURL string
	apiKey  string
	doer    Doer
}

// NewClient creates the source. An empty baseURL falls back to the public
// API; a nil doer falls back to a default http.Client.
func NewClient(baseURL, apiKey string, doer Doer) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, doer: doer}
}

type currentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain    map[string]float64 `json:"rain"`
	Snow    map[string]float64 `json:"snow"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current fetches the observation at (lat, lon) in metric units. The rain
// and snow blocks arrive as {"1h": mm, "3h": mm} maps and are absent in dry
// conditions, which maps to nil precipitation fields.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*domain.WeatherObservation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key not configured", domain.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: weather request: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: weather service returned status %d",
			domain.ErrSourceUnavailable, resp.StatusCode)
	}

	var parsed currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode weather response: %v", domain.ErrSourceUnavailable, err)
	}

	obs := &domain.WeatherObservation{
		Temp:      parsed.Main.Temp,
		FeelsLike: parsed.Main.FeelsLike,
		Humidity:  parsed.Main.Humidity,
		WindSpeed: parsed.Wind.Speed,
		Rain1h:    bucket(parsed.Rain, "1h"),
		Rain3h:    bucket(parsed.Rain, "3h"),
		Snow1h:    bucket(parsed.Snow, "1h"),
		Snow3h:    bucket(parsed.Snow, "3h"),
	}
	if len(parsed.Weather) > 0 {
		obs.Description = parsed.Weather[0].Description
	}
	return obs, nil
}

func bucket(m map[string]float64, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	return &v
}
