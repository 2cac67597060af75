// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package api provides the HTTP surface of the recommendation engine.
//
// Routing uses chi with a shared middleware stack (request ID, real IP,
// panic recovery, CORS, per-IP rate limiting, Prometheus metrics, gzip).
// All payloads are validated at the boundary with go-playground/validator
// before they reach the engine, and every response uses the
// models.APIResponse envelope.
//
// Endpoints:
//
//	POST /api/v1/generate          full itinerary generation
//	POST /api/v1/recommendations   standalone top-N recommendations
//	POST /api/v1/score/base        base score for one place
//	POST /api/v1/score/contextual  contextual score for one place
//	POST /api/v1/feedback          fire-and-forget outcome events
//	GET  /api/v1/weights           current scoring weights
//	GET  /api/v1/health            component health summary
//	GET  /api/v1/health/live       liveness probe
//	GET  /api/v1/health/ready      readiness probe
//	GET  /metrics                  Prometheus metrics
package api
