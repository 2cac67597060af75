// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package catalog provides the place catalog behind the recommendation
// pipeline.
//
// The catalog is read-mostly: places are loaded from a seed file or put
// individually by operators, and the request path only reads. Two
// implementations exist: a BadgerDB-backed store for production, which
// persists places across restarts and keeps an in-memory region index
// plus a spatial grid for queries, and a purely in-memory store for
// tests and ephemeral deployments.
//
// Candidate selection prefers places matching the requested style
// categories but never excludes on category alone; relevance is the
// scorers' job, the catalog only orders the candidate stream so the
// limit cuts the least interesting places first.
package catalog
