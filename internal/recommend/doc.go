// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package recommend implements the personalized itinerary pipeline.
//
// # Architecture
//
// The pipeline runs the same stages for every request:
//
//	candidates -> base scoring -> contextual re-scoring ->
//	constraint filtering -> assembly (itineraries) or ranking (top-N)
//
// Base scoring measures preference relevance independent of live
// conditions. Contextual re-scoring folds a point-in-time context
// snapshot (weather, crowds, schedules) into the score without ever
// mutating the base value, so cached base scores stay reusable across
// snapshots. Filtering removes hard-constraint violations; the
// assembler then selects and schedules an ordered subset, while the
// ranker produces standalone top-N lists.
//
// # Weights and feedback
//
// Scoring weights live in a copy-on-write WeightStore. Each request
// takes one immutable snapshot and uses it end to end, so a concurrent
// feedback update can never produce a mixture of old and new weights
// inside one request. The FeedbackLoop is the store's only writer: it
// accumulates outcome events in a bounded queue and applies batched
// EMA updates, bumping the snapshot version each time.
//
// # Failure taxonomy
//
// All pipeline failures surface as one of the sentinel errors in
// errors.go, wrapped with stage context. Recoverable conditions (cache
// backend down, slow feeds) degrade inside the stage instead.
package recommend
