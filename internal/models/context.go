// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package models

import (
	"time"
)

// WeatherCondition is the coarse weather classification used for scoring.
type WeatherCondition string

// Weather conditions recognized by the contextual scorer.
const (
	WeatherSunny  WeatherCondition = "sunny"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRainy  WeatherCondition = "rainy"
	WeatherSnowy  WeatherCondition = "snowy"
	WeatherStorm  WeatherCondition = "storm"
)

// Season is the meteorological season for seasonal adjustments.
type Season string

// Seasons recognized by the contextual scorer.
const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// SeasonOf returns the meteorological season for a timestamp.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// ContextSnapshot is an immutable bundle of live signals for one request.
// Snapshots are built once per region/time bucket and reused within their
// validity window; this is the caching unit for external feed data.
type ContextSnapshot struct {
	// Weather is the coarse weather condition.
	Weather WeatherCondition `json:"weather"`

	// Temperature is the ambient temperature in Celsius.
	Temperature float64 `json:"temperature"`

	// PrecipitationProbability is the chance of rain in [0, 1].
	PrecipitationProbability float64 `json:"precipitation_probability"`

	// ExtremeWeather marks conditions under which outdoor visits are unsafe.
	ExtremeWeather bool `json:"extreme_weather,omitempty"`

	// Season is the current season.
	Season Season `json:"season"`

	// CrowdLevel is the regional crowding estimate in [0, 1].
	CrowdLevel float64 `json:"crowd_level"`

	// SpecialEvent marks an ongoing event driving unusual crowds.
	SpecialEvent bool `json:"special_event,omitempty"`

	// QueueMinutes is the expected queue time in minutes, 0 if unknown.
	QueueMinutes int `json:"queue_minutes,omitempty"`

	// Region is the region key the snapshot was built for.
	Region string `json:"region,omitempty"`

	// AsOf is when the snapshot was built.
	AsOf time.Time `json:"as_of"`

	// Degraded marks snapshots assembled from defaults after feed failures.
	Degraded bool `json:"degraded,omitempty"`
}

// Expired reports whether the snapshot is older than the validity window.
func (s *ContextSnapshot) Expired(validity time.Duration, now time.Time) bool {
	return now.Sub(s.AsOf) > validity
}
