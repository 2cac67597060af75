// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package metrics defines the Prometheus instrumentation for the
// service: HTTP request metrics, pipeline stage durations, score cache
// efficiency, feedback loop throughput, and external feed health.
//
// All collectors are registered with the default registry via promauto
// at package load. The /metrics endpoint exposes them through
// promhttp.
package metrics
