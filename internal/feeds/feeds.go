// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"context"
	"strings"
	"time"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// WeatherReport is the normalized output of a weather provider.
type WeatherReport struct {
	Condition                models.WeatherCondition `json:"condition"`
	Temperature              float64                 `json:"temperature_c"`
	PrecipitationProbability float64                 `json:"precipitation_probability"`
	Extreme                  bool                    `json:"extreme,omitempty"`
}

// CrowdReport is the normalized output of a crowd provider.
type CrowdReport struct {
	Level        float64 `json:"level"`
	SpecialEvent bool    `json:"special_event,omitempty"`
	QueueMinutes int     `json:"queue_minutes,omitempty"`
}

// WeatherProvider supplies current weather for a region.
type WeatherProvider interface {
	Weather(ctx context.Context, region string) (WeatherReport, error)
}

// CrowdProvider supplies current crowding estimates for a region.
type CrowdProvider interface {
	Crowd(ctx context.Context, region string) (CrowdReport, error)
}

// ClientConfig holds connection settings shared by the feed HTTP clients.
type ClientConfig struct {
	// BaseURL is the upstream endpoint, without trailing slash.
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds each HTTP request. Zero means 10 seconds.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero means 10 rps.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size. Zero means 5.
	Burst int
}

func (c *ClientConfig) withDefaults() ClientConfig {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 10 * time.Second
	}
	if out.RequestsPerSecond <= 0 {
		out.RequestsPerSecond = 10
	}
	if out.Burst <= 0 {
		out.Burst = 5
	}
	return out
}

// parseCondition maps free-form upstream condition strings onto the
// coarse classification the scorer understands. Unknown values fall
// back to cloudy, the neutral factor.
func parseCondition(raw string) models.WeatherCondition {
	switch models.WeatherCondition(strings.ToLower(strings.TrimSpace(raw))) {
	case models.WeatherSunny:
		return models.WeatherSunny
	case models.WeatherRainy:
		return models.WeatherRainy
	case models.WeatherSnowy:
		return models.WeatherSnowy
	case models.WeatherStorm:
		return models.WeatherStorm
	default:
		return models.WeatherCloudy
	}
}

// StaticWeather is a WeatherProvider returning a fixed report. Used in
// tests and in deployments without a weather feed.
type StaticWeather struct {
	Report WeatherReport
}

// Weather returns the configured report.
func (s StaticWeather) Weather(_ context.Context, _ string) (WeatherReport, error) {
	return s.Report, nil
}

// StaticCrowd is a CrowdProvider returning a fixed report.
type StaticCrowd struct {
	Report CrowdReport
}

// Crowd returns the configured report.
func (s StaticCrowd) Crowd(_ context.Context, _ string) (CrowdReport, error) {
	return s.Report, nil
}
