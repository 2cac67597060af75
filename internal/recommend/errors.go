// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package recommend implements the scoring and assembly pipeline.
//
// errors.go - Typed failure taxonomy
//
// Stage-local recoverable conditions (cache miss, one slow upstream call)
// are absorbed inside the stage. Anything that prevents producing a valid
// itinerary or score surfaces as one of these sentinels, wrapped with
// context, never as a generic fault.
package recommend

import "errors"

// Sentinel errors surfaced to the boundary layer.
var (
	// ErrInvalidInput indicates malformed preferences or constraints.
	// The request is rejected before pipeline entry.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamTimeout indicates an external context or model call
	// exceeded its budget after one shortened retry.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrInsufficientCandidates indicates the filter or assembler found no
	// feasible selection. Surfaced to callers as an empty result, not a
	// server fault.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrNoFeasibleOrdering indicates the assembler exhausted its
	// backtracking retries against the opening-hours schedule.
	ErrNoFeasibleOrdering = errors.New("no feasible ordering")

	// ErrCacheUnavailable indicates the score cache backend is unreachable.
	// The pipeline degrades to always-recompute rather than failing.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
