// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// weatherResponse is the upstream wire format.
type weatherResponse struct {
	Condition                string  `json:"condition"`
	TemperatureC             float64 `json:"temperature_c"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	Extreme                  bool    `json:"extreme"`
}

// WeatherClient fetches current weather from an HTTP feed.
type WeatherClient struct {
	feed *httpFeed[weatherResponse]
}

// NewWeatherClient creates a weather client for the given endpoint.
func NewWeatherClient(cfg ClientConfig, logger zerolog.Logger) *WeatherClient {
	return &WeatherClient{feed: newHTTPFeed[weatherResponse]("weather", cfg, logger)}
}

// Weather returns the current conditions for a region.
func (c *WeatherClient) Weather(ctx context.Context, region string) (WeatherReport, error) {
	reqURL := fmt.Sprintf("%s/v1/weather?region=%s", c.feed.cfg.BaseURL, url.QueryEscape(region))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return WeatherReport{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.feed.fetch(req)
	if err != nil {
		return WeatherReport{}, err
	}

	return WeatherReport{
		Condition:                parseCondition(resp.Condition),
		Temperature:              resp.TemperatureC,
		PrecipitationProbability: clamp01(resp.PrecipitationProbability),
		Extreme:                  resp.Extreme,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
