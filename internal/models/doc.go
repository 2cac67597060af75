// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

/*
Package models defines data structures for the AnabAI recommendation engine.

It is the single source of truth for the domain types flowing through the
scoring and assembly pipeline, and for the API envelope shared by all HTTP
endpoints.

Key Components:

  - Place: Immutable catalog entry (categories, geolocation, schedule, popularity)
  - UserPreferences / Constraints: Per-request inputs, immutable for the request
  - ContextSnapshot: Point-in-time weather/season/crowd bundle with a validity window
  - ScoredPlace / Itinerary: Derived pipeline outputs
  - FeedbackEvent: Transient outcome signal consumed by the feedback loop
  - APIResponse / APIError: Standardized HTTP envelope

The package has no dependencies on other internal packages so every layer
can import it without cycles.
*/
package models
