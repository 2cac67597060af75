// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package models

import (
	"time"
)

// BudgetTier classifies the user's spending preference.
type BudgetTier string

// Budget tiers accepted in requests.
const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// Valid reports whether the tier is one of the accepted values.
func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// UserPreferences captures per-request user taste. Immutable for the
// lifetime of one request.
type UserPreferences struct {
	// Styles are preference tags matched against place categories.
	Styles []string `json:"styles" validate:"max=16,dive,min=1,max=64"`

	// Budget is the budget tier.
	Budget BudgetTier `json:"budget,omitempty" validate:"omitempty,oneof=low medium high"`

	// Duration is the desired total itinerary duration.
	Duration time.Duration `json:"duration,omitempty"`

	// Accessibility is a required accessibility tag, empty if none.
	Accessibility string `json:"accessibility,omitempty" validate:"max=64"`
}

// Constraints are the hard limits an itinerary must satisfy.
// Immutable per request.
type Constraints struct {
	// WindowStart is the preferred start time, minutes from midnight.
	WindowStart int `json:"window_start" validate:"min=0,max=1439"`

	// WindowEnd is the preferred end time, minutes from midnight.
	WindowEnd int `json:"window_end" validate:"min=0,max=1440"`

	// MaxDistance is the maximum cumulative travel distance in meters.
	MaxDistance float64 `json:"max_distance" validate:"min=0"`

	// ExcludedPlaces are catalog IDs that must never appear in results.
	ExcludedPlaces []string `json:"excluded_places,omitempty" validate:"max=256"`

	// MaxPlaces caps the itinerary length. Zero means use the configured cap.
	MaxPlaces int `json:"max_places,omitempty" validate:"min=0,max=50"`
}

// WindowDuration returns the preferred time window as a duration.
func (c *Constraints) WindowDuration() time.Duration {
	if c.WindowEnd <= c.WindowStart {
		return 0
	}
	return time.Duration(c.WindowEnd-c.WindowStart) * time.Minute
}

// ExcludedSet returns the exclusion list as a set for O(1) membership checks.
func (c *Constraints) ExcludedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExcludedPlaces))
	for _, id := range c.ExcludedPlaces {
		set[id] = struct{}{}
	}
	return set
}
