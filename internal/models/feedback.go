// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package models

import (
	"time"
)

// Outcome classifies a user's reaction to a recommended place.
type Outcome string

// Outcomes accepted by the feedback loop.
const (
	// OutcomeAccepted means the place was added to the user's plan.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected means the place was dismissed.
	OutcomeRejected Outcome = "rejected"
	// OutcomeCompleted means the place was actually visited.
	OutcomeCompleted Outcome = "completed"
)

// Valid reports whether the outcome is one of the accepted values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAccepted, OutcomeRejected, OutcomeCompleted:
		return true
	}
	return false
}

// Confidence returns the learning weight for this outcome.
// Completions are the strongest positive signal.
func (o Outcome) Confidence() float64 {
	switch o {
	case OutcomeCompleted:
		return 1.0
	case OutcomeAccepted:
		return 0.7
	case OutcomeRejected:
		return 0.9
	default:
		return 0.0
	}
}

// FeedbackEvent is a transient outcome signal consumed by the feedback
// loop. Events are not retained after the weight update that absorbs them.
type FeedbackEvent struct {
	// PlaceID is the catalog ID of the recommended place.
	PlaceID string `json:"place_id" validate:"required,max=128"`

	// PreferencesHash identifies the preference profile that produced the
	// recommendation.
	PreferencesHash string `json:"preferences_hash,omitempty" validate:"max=128"`

	// Outcome is the user's reaction.
	Outcome Outcome `json:"outcome" validate:"required,oneof=accepted rejected completed"`

	// Timestamp is when the outcome was observed.
	Timestamp time.Time `json:"timestamp"`
}
