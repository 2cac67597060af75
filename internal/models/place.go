// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package models

import (
	"time"
)

// Geolocation is a WGS84 coordinate pair.
type Geolocation struct {
	// Lat is the latitude in degrees [-90, 90].
	Lat float64 `json:"lat"`

	// Lon is the longitude in degrees [-180, 180].
	Lon float64 `json:"lon"`
}

// OpeningHours describes when a place can be visited, as minutes from
// midnight local time. A zero value means the place is always open.
type OpeningHours struct {
	// OpenMinute is the opening time in minutes from midnight (0-1439).
	OpenMinute int `json:"open_minute"`

	// CloseMinute is the closing time in minutes from midnight (1-1440).
	CloseMinute int `json:"close_minute"`
}

// AlwaysOpen reports whether the schedule imposes no constraint.
func (h OpeningHours) AlwaysOpen() bool {
	return h.OpenMinute == 0 && h.CloseMinute == 0
}

// Contains reports whether the given minute-of-day falls inside the schedule.
func (h OpeningHours) Contains(minute int) bool {
	if h.AlwaysOpen() {
		return true
	}
	return minute >= h.OpenMinute && minute <= h.CloseMinute
}

// ContainsWindow reports whether the whole [start, end] window fits inside
// the schedule.
func (h OpeningHours) ContainsWindow(start, end int) bool {
	if h.AlwaysOpen() {
		return true
	}
	return start >= h.OpenMinute && end <= h.CloseMinute
}

// Place is a candidate visit target from the catalog.
// Places are immutable once loaded; the pipeline only reads them.
type Place struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Categories are style/category tags (cultural, gastronomic, historical, ...).
	Categories []string `json:"categories"`

	// Location is the place's geolocation.
	Location Geolocation `json:"location"`

	// VisitDuration is the nominal visit duration.
	VisitDuration time.Duration `json:"visit_duration"`

	// Hours is the opening-hours schedule.
	Hours OpeningHours `json:"hours"`

	// Accessibility tags (wheelchair, stroller, step_free, ...).
	Accessibility []string `json:"accessibility,omitempty"`

	// Outdoor marks places exposed to weather.
	Outdoor bool `json:"outdoor,omitempty"`

	// CrowdTolerant marks places whose appeal does not degrade with crowding.
	CrowdTolerant bool `json:"crowd_tolerant,omitempty"`

	// Popularity is the base popularity prior in [0, 1].
	Popularity float64 `json:"popularity"`

	// Region is the catalog region key used for candidate lookup.
	Region string `json:"region,omitempty"`
}

// HasCategory reports whether the place carries the given category tag.
func (p *Place) HasCategory(tag string) bool {
	for _, c := range p.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// HasAccessibility reports whether the place carries the given accessibility tag.
func (p *Place) HasAccessibility(tag string) bool {
	for _, a := range p.Accessibility {
		if a == tag {
			return true
		}
	}
	return false
}
