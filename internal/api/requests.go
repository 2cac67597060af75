// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Request payload structs with go-playground/validator tags. Each struct
// documents the contract of one endpoint; handlers decode into these and
// run validateRequest before touching the engine.
package api

import (
	"github.com/Smile2578/anabai-ml/internal/models"
)

// generatePayload is the body of POST /api/v1/generate.
// Preferences and constraints carry their own validation tags on the
// model types; the boundary adds the envelope-level rules here.
type generatePayload struct {
	Preferences models.UserPreferences  `json:"preferences"`
	Constraints models.Constraints      `json:"constraints"`
	Region      string                  `json:"region" validate:"omitempty,min=1,max=80"`
	Context     *models.ContextSnapshot `json:"context,omitempty"`
	RequestID   string                  `json:"request_id,omitempty" validate:"omitempty,max=128"`
}

// recommendPayload is the body of POST /api/v1/recommendations.
type recommendPayload struct {
	UserID      string                  `json:"user_id,omitempty" validate:"omitempty,max=128"`
	Preferences models.UserPreferences  `json:"preferences"`
	Constraints models.Constraints      `json:"constraints"`
	Region      string                  `json:"region" validate:"omitempty,min=1,max=80"`
	TopN        int                     `json:"top_n,omitempty" validate:"min=0,max=50"`
	Context     *models.ContextSnapshot `json:"context,omitempty"`
	RequestID   string                  `json:"request_id,omitempty" validate:"omitempty,max=128"`
}

// scorePayload is the body of POST /api/v1/score/base and
// POST /api/v1/score/contextual. The place is looked up by catalog ID so
// scores always reflect the stored place, not a caller-supplied copy.
type scorePayload struct {
	PlaceID     string                  `json:"place_id" validate:"required,max=128"`
	Preferences models.UserPreferences  `json:"preferences"`
	Constraints models.Constraints      `json:"constraints"`
	Context     *models.ContextSnapshot `json:"context,omitempty"`
}

// feedbackPayload is the body of POST /api/v1/feedback.
type feedbackPayload struct {
	PlaceID         string `json:"place_id" validate:"required,max=128"`
	PreferencesHash string `json:"preferences_hash,omitempty" validate:"omitempty,max=128"`
	Outcome         string `json:"outcome" validate:"required,oneof=accepted rejected completed"`
}

// feedbackReceipt is the success body of POST /api/v1/feedback.
type feedbackReceipt struct {
	// Queued is false when the event was a duplicate or the queue was full.
	Queued bool `json:"queued"`

	// Duplicate marks events suppressed by the dedup window.
	Duplicate bool `json:"duplicate,omitempty"`
}
