// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with custom validators and user-friendly error
// messages. It integrates with the application's API error format for consistent
// error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Custom validators for the recommendation domain (travel_style, budget_tier)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type recommendPayload struct {
//	    Region string   `validate:"omitempty,min=1,max=80"`
//	    TopN   int      `validate:"min=0,max=50"`
//	    Styles []string `validate:"required,min=1,dive,travel_style"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var payload recommendPayload
//	    if err := json.Decode(r.Body, &payload); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&payload); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Custom Validators
//
//   - travel_style: value must belong to the accepted style vocabulary
//     (cultural, culinary, nature, nightlife, shopping, relaxation,
//     adventure, family, photography, spiritual)
//   - budget_tier: value must be one of low, medium, high
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Budget must be one of: low, medium, high",
//	    "details": {"field": "Budget", "tag": "budget_tier", "value": "extravagant"}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Styles: required; TopN: must be at most 50",
//	    "details": {
//	        "fields": [
//	            {"field": "Styles", "tag": "required", "message": "..."},
//	            {"field": "TopN", "tag": "max", "message": "..."}
//	        ]
//	    }
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
