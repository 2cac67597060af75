// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package models

import (
	"time"
)

// ScoredPlace pairs a place with its pipeline scores. Derived per request,
// never persisted beyond the score cache TTL.
type ScoredPlace struct {
	// Place is the catalog place being scored.
	Place Place `json:"place"`

	// BaseScore is the preference-relevance score in [0, 1].
	BaseScore float64 `json:"base_score"`

	// ContextualScore is the context-adjusted score in [0, 1].
	ContextualScore float64 `json:"contextual_score"`

	// CombinedScore is the final relevance value in [0, 1].
	CombinedScore float64 `json:"combined_score"`

	// Components is the per-signal contribution breakdown.
	Components map[string]float64 `json:"components,omitempty"`
}

// ItineraryStop is one scheduled place inside an itinerary.
type ItineraryStop struct {
	ScoredPlace

	// ArrivalMinute is the scheduled arrival, minutes from midnight.
	ArrivalMinute int `json:"arrival_minute"`

	// DepartureMinute is the scheduled departure, minutes from midnight.
	DepartureMinute int `json:"departure_minute"`

	// TravelDistance is the distance traveled from the previous stop in meters.
	TravelDistance float64 `json:"travel_distance"`
}

// Itinerary is an ordered, budget-feasible sequence of scheduled stops.
// Immutable once returned by the assembler.
type Itinerary struct {
	// ID is a unique identifier for the generated itinerary.
	ID string `json:"id"`

	// Stops is the ordered stop sequence.
	Stops []ItineraryStop `json:"stops"`

	// TotalScore is the sum of combined scores across stops.
	TotalScore float64 `json:"total_score"`

	// TotalDuration is visit time plus estimated travel time.
	TotalDuration time.Duration `json:"total_duration"`

	// TotalDistance is the cumulative travel distance in meters.
	TotalDistance float64 `json:"total_distance"`

	// GeneratedAt is when the itinerary was assembled.
	GeneratedAt time.Time `json:"generated_at"`
}
