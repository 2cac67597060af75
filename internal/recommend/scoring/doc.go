// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package scoring implements the base and contextual scorers used by the
// recommendation engine.
//
// Both scorers are deterministic, pure functions of their declared inputs
// and the weight snapshot handed to them. That property underpins the
// score cache: a cached entry is valid exactly as long as the (place,
// preferences, context, weights-version) tuple it was computed from.
package scoring
