// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package middleware provides the HTTP middleware stack applied by the
// API router: request ID propagation, Prometheus instrumentation, and
// gzip compression. Rate limiting and CORS come from the go-chi
// ecosystem (httprate, cors) and are wired directly in the router.
package middleware
