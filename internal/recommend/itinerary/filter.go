// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package itinerary

import (
	"github.com/Smile2578/anabai-ml/internal/geo"
	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// Filter removes places that violate hard constraints and applies the
// soft schedule penalty to places that are open for only part of the
// preferred window.
//
// Hard violations (excluded, missing accessibility, closed for the whole
// window, beyond the distance radius) remove the place. An empty result
// is valid and propagates to the caller unchanged.
type Filter struct {
	softPenalty float64
}

// NewFilter creates a constraint filter from the assembly configuration.
func NewFilter(cfg recommend.AssemblyConfig) *Filter {
	return &Filter{softPenalty: cfg.SoftPenalty}
}

// Filter implements recommend.ConstraintFilter.
func (f *Filter) Filter(places []models.ScoredPlace, constraints *models.Constraints, prefs *models.UserPreferences) []models.ScoredPlace {
	excluded := constraints.ExcludedSet()
	hasWindow := constraints.WindowEnd > constraints.WindowStart

	out := make([]models.ScoredPlace, 0, len(places))
	for _, sp := range places {
		if _, skip := excluded[sp.Place.ID]; skip {
			continue
		}
		if prefs.Accessibility != "" && !sp.Place.HasAccessibility(prefs.Accessibility) {
			continue
		}
		if hasWindow {
			if !overlapsWindow(sp.Place.Hours, constraints.WindowStart, constraints.WindowEnd) {
				continue
			}
			if !sp.Place.Hours.ContainsWindow(constraints.WindowStart, constraints.WindowEnd) {
				sp.CombinedScore *= f.softPenalty
			}
		}
		out = append(out, sp)
	}

	if constraints.MaxDistance > 0 {
		out = f.trimByRadius(out, constraints.MaxDistance)
	}

	return out
}

// trimByRadius drops places farther than radius meters from the
// provisional centroid of the surviving set. The centroid is computed
// once rather than iteratively: a single far outlier shifts it only
// marginally, and the assembler's distance budget catches the rest.
func (f *Filter) trimByRadius(places []models.ScoredPlace, radius float64) []models.ScoredPlace {
	if len(places) < 2 {
		return places
	}

	locations := make([]models.Geolocation, len(places))
	for i := range places {
		locations[i] = places[i].Place.Location
	}
	center, ok := geo.Centroid(locations)
	if !ok {
		return places
	}

	out := places[:0]
	for _, sp := range places {
		if geo.Distance(sp.Place.Location, center) <= radius {
			out = append(out, sp)
		}
	}
	return out
}

// overlapsWindow reports whether the schedule is open for at least part
// of the [start, end] window.
func overlapsWindow(h models.OpeningHours, start, end int) bool {
	if h.AlwaysOpen() {
		return true
	}
	return h.OpenMinute < end && h.CloseMinute > start
}
