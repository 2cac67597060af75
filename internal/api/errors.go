// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package api

import (
	"errors"
	"net/http"

	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// Error codes returned in the APIError envelope.
const (
	codeInvalidInput       = "INVALID_INPUT"
	codeNotFound           = "NOT_FOUND"
	codeNoFeasibleOrdering = "NO_FEASIBLE_ORDERING"
	codeUpstreamTimeout    = "UPSTREAM_TIMEOUT"
	codeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	codeInternalError      = "INTERNAL_ERROR"
)

// mapEngineError translates pipeline sentinel errors to an HTTP status
// and error code. ErrInsufficientCandidates is deliberately absent: an
// empty candidate pool is a valid outcome, not a fault, and the handlers
// turn it into a 200 with an empty result set before reaching here.
func mapEngineError(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput):
		return http.StatusBadRequest, codeInvalidInput
	case errors.Is(err, recommend.ErrNoFeasibleOrdering):
		return http.StatusUnprocessableEntity, codeNoFeasibleOrdering
	case errors.Is(err, recommend.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, codeUpstreamTimeout
	default:
		return http.StatusInternalServerError, codeInternalError
	}
}
