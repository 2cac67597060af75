// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/cache"
	"github.com/Smile2578/anabai-ml/internal/catalog"
	"github.com/Smile2578/anabai-ml/internal/logging"
	"github.com/Smile2578/anabai-ml/internal/metrics"
	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// feedbackDedupTTL is the suppression window for repeated feedback on
// the same (place, profile, outcome) triple.
const feedbackDedupTTL = 5 * time.Minute

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	engine   *recommend.Engine
	feedback *recommend.FeedbackLoop
	catalog  catalog.Catalog
	dedup    *cache.DedupCache
	logger   zerolog.Logger
	started  time.Time
}

// NewHandler creates the handler set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *recommend.Engine, feedback *recommend.FeedbackLoop, cat catalog.Catalog, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		feedback: feedback,
		catalog:  cat,
		dedup:    cache.NewDedupCache(4096, feedbackDedupTTL),
		logger:   logger.With().Str("component", "api").Logger(),
		started:  time.Now(),
	}
}

// Generate handles POST /api/v1/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload generatePayload
	if err := decodeRequest(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&payload); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	req := &recommend.GenerateRequest{
		Preferences: payload.Preferences,
		Constraints: payload.Constraints,
		Region:      payload.Region,
		Context:     payload.Context,
		RequestID:   h.requestID(r, payload.RequestID),
	}

	resp, err := h.engine.Generate(r.Context(), req)
	if errors.Is(err, recommend.ErrInsufficientCandidates) {
		// An empty candidate pool is a valid outcome, not a fault.
		metrics.RecordGeneration(time.Since(start), 0, nil)
		respondSuccess(w, http.StatusOK, &recommend.GenerateResponse{
			Itinerary: &models.Itinerary{Stops: []models.ItineraryStop{}},
		}, start)
		return
	}
	if err != nil {
		metrics.RecordGeneration(time.Since(start), 0, err)
		status, code := mapEngineError(err)
		respondError(w, status, code, "Itinerary generation failed", err)
		return
	}

	metrics.RecordGeneration(time.Since(start), len(resp.Itinerary.Stops), nil)
	respondSuccess(w, http.StatusOK, resp, start)
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload recommendPayload
	if err := decodeRequest(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&payload); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	req := &recommend.RecommendRequest{
		UserID:      payload.UserID,
		Preferences: payload.Preferences,
		Constraints: payload.Constraints,
		Region:      payload.Region,
		TopN:        payload.TopN,
		Context:     payload.Context,
		RequestID:   h.requestID(r, payload.RequestID),
	}

	resp, err := h.engine.Recommend(r.Context(), req)
	if errors.Is(err, recommend.ErrInsufficientCandidates) {
		metrics.RecordRecommendation(time.Since(start), nil)
		respondSuccess(w, http.StatusOK, &recommend.RecommendResponse{
			Places: []models.ScoredPlace{},
		}, start)
		return
	}
	if err != nil {
		metrics.RecordRecommendation(time.Since(start), err)
		status, code := mapEngineError(err)
		respondError(w, status, code, "Recommendation ranking failed", err)
		return
	}

	metrics.RecordRecommendation(time.Since(start), nil)
	respondSuccess(w, http.StatusOK, resp, start)
}

// ScoreBase handles POST /api/v1/score/base.
func (h *Handler) ScoreBase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	payload, place, ok := h.resolveScorePayload(w, r)
	if !ok {
		return
	}

	scored, err := h.engine.ScoreBase(r.Context(), &place, &payload.Preferences)
	if err != nil {
		status, code := mapEngineError(err)
		respondError(w, status, code, "Base scoring failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, scored, start)
}

// ScoreContextual handles POST /api/v1/score/contextual.
func (h *Handler) ScoreContextual(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	payload, place, ok := h.resolveScorePayload(w, r)
	if !ok {
		return
	}

	scored, err := h.engine.ScoreContextual(r.Context(), &place, &payload.Preferences, &payload.Constraints, payload.Context)
	if err != nil {
		status, code := mapEngineError(err)
		respondError(w, status, code, "Contextual scoring failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, scored, start)
}

// resolveScorePayload decodes, validates, and resolves the place for the
// two score inspection endpoints. Writes the error response itself and
// returns ok=false when the request cannot proceed.
func (h *Handler) resolveScorePayload(w http.ResponseWriter, r *http.Request) (scorePayload, models.Place, bool) {
	var payload scorePayload
	if err := decodeRequest(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "Malformed request body", err)
		return payload, models.Place{}, false
	}
	if apiErr := validateRequest(&payload); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return payload, models.Place{}, false
	}

	place, err := h.catalog.Get(r.Context(), payload.PlaceID)
	if errors.Is(err, catalog.ErrPlaceNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "Place not found", nil)
		return payload, models.Place{}, false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "Catalog lookup failed", err)
		return payload, models.Place{}, false
	}

	return payload, place, true
}

// Feedback handles POST /api/v1/feedback. Events are fire-and-forget:
// the response only reports whether the event entered the queue, never
// whether a weight update resulted from it.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload feedbackPayload
	if err := decodeRequest(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidInput, "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&payload); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	dedupKey := fmt.Sprintf("%s|%s|%s", payload.PlaceID, payload.PreferencesHash, payload.Outcome)
	if h.dedup.Seen(dedupKey) {
		metrics.RecordFeedback("duplicate")
		respondSuccess(w, http.StatusAccepted, feedbackReceipt{Queued: false, Duplicate: true}, start)
		return
	}

	queued := h.feedback.Publish(models.FeedbackEvent{
		PlaceID:         payload.PlaceID,
		PreferencesHash: payload.PreferencesHash,
		Outcome:         models.Outcome(payload.Outcome),
		Timestamp:       time.Now(),
	})
	if queued {
		metrics.RecordFeedback("queued")
	} else {
		metrics.RecordFeedback("dropped")
	}

	respondSuccess(w, http.StatusAccepted, feedbackReceipt{Queued: queued}, start)
}

// Weights handles GET /api/v1/weights.
func (h *Handler) Weights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snapshot := h.engine.Weights()
	respondSuccess(w, http.StatusOK, snapshot, start)
}

// Health handles GET /api/v1/health with a component summary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	places, err := h.catalog.Count(r.Context())
	catalogStatus := "ok"
	if err != nil {
		catalogStatus = "unavailable"
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"uptime_seconds":  int64(time.Since(h.started).Seconds()),
		"weights_version": h.engine.Weights().Version,
		"feedback":        h.feedback.Stats(),
		"pipeline":        h.engine.Stats(),
		"catalog": map[string]interface{}{
			"status": catalogStatus,
			"places": places,
		},
	}, start)
}

// HealthLive handles GET /api/v1/health/live. Always 200 while the
// process can serve requests.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready. Ready means the catalog
// answers and holds at least one place.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	count, err := h.catalog.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, codeInternalError, "Catalog unavailable", err)
		return
	}
	if count == 0 {
		respondError(w, http.StatusServiceUnavailable, codeInternalError, "Catalog is empty", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"places": count,
	}, start)
}

// requestID prefers the payload's ID, then the middleware-assigned one.
func (h *Handler) requestID(r *http.Request, supplied string) string {
	if supplied != "" {
		return supplied
	}
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return ""
}
