// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package feeds integrates external context signals into the scoring
// pipeline: weather, crowd estimates, and the optional remote model
// scorer.
//
// Each HTTP client wraps its upstream with a circuit breaker
// (sony/gobreaker) and a token-bucket rate limiter (golang.org/x/time/rate)
// so a slow or failing feed cannot stall request handling. The
// SnapshotBuilder composes provider outputs into ContextSnapshot values
// and reuses them per region within a validity window; when a feed is
// down it degrades to neutral defaults rather than failing the request.
//
// All upstream failures surface as wrapped ErrUpstreamTimeout so the
// engine can apply its single degradation policy regardless of which
// feed misbehaved.
package feeds
