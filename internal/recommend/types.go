// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package recommend

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// GenerateRequest asks for a full multi-stop itinerary.
type GenerateRequest struct {
	// Preferences is the user's taste profile for this request.
	Preferences models.UserPreferences `json:"preferences"`

	// Constraints are the hard limits the itinerary must satisfy.
	Constraints models.Constraints `json:"constraints"`

	// Region selects the catalog region to draw candidates from.
	Region string `json:"region,omitempty"`

	// Context optionally supplies a pre-built snapshot. When nil the
	// engine builds one from the configured feeds.
	Context *models.ContextSnapshot `json:"context,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// GenerateResponse carries the assembled itinerary.
type GenerateResponse struct {
	// Itinerary is the assembled, schedule-feasible stop sequence.
	Itinerary *models.Itinerary `json:"itinerary"`

	// TotalCandidates is the number of catalog places considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// RecommendRequest asks for top-N standalone recommendations.
type RecommendRequest struct {
	// UserID identifies the requesting user, for tracing only.
	UserID string `json:"user_id,omitempty"`

	// Preferences is the user's taste profile for this request.
	Preferences models.UserPreferences `json:"preferences"`

	// Constraints optionally restricts candidates; zero value means none.
	Constraints models.Constraints `json:"constraints,omitempty"`

	// Region selects the catalog region to draw candidates from.
	Region string `json:"region,omitempty"`

	// TopN is the number of recommendations to return.
	// Defaults to Config.Limits.DefaultTopN if zero.
	TopN int `json:"top_n,omitempty"`

	// Context optionally supplies a pre-built snapshot.
	Context *models.ContextSnapshot `json:"context,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// RecommendResponse carries ranked standalone recommendations.
type RecommendResponse struct {
	// Places is the ordered recommendation list, best first.
	Places []models.ScoredPlace `json:"places"`

	// TotalCandidates is the number of catalog places considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Region is the catalog region candidates were drawn from.
	Region string `json:"region,omitempty"`

	// WeightsVersion is the weight-snapshot version used for scoring.
	WeightsVersion int64 `json:"weights_version"`

	// ContextAsOf is when the context snapshot was built.
	ContextAsOf time.Time `json:"context_as_of"`

	// Degraded indicates the context snapshot fell back to defaults.
	Degraded bool `json:"degraded,omitempty"`

	// CacheHits counts scores served from the score cache.
	CacheHits int `json:"cache_hits"`

	// LatencyMS is the total pipeline latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// CatalogProvider supplies read-only candidate places.
// Typically implemented by the catalog package.
type CatalogProvider interface {
	// Candidates returns up to limit places for a region. When categories
	// is non-empty, places carrying any of the categories are preferred
	// but uncategorized matches are still returned, so the scorers decide
	// relevance rather than the catalog.
	Candidates(ctx context.Context, region string, categories []string, limit int) ([]models.Place, error)
}

// SnapshotProvider builds context snapshots for a region.
// Implementations own the validity-window reuse and degraded fallback.
type SnapshotProvider interface {
	// Snapshot returns a snapshot no older than the validity window.
	// Returns ErrUpstreamTimeout (wrapped) when feeds cannot be reached
	// and no cached or default snapshot is acceptable.
	Snapshot(ctx context.Context, region string) (models.ContextSnapshot, error)
}

// ScoreEntry is a memoized score pair for one (place, preferences,
// context) combination.
type ScoreEntry struct {
	BaseScore       float64            `json:"base_score"`
	ContextualScore float64            `json:"contextual_score"`
	CombinedScore   float64            `json:"combined_score"`
	Components      map[string]float64 `json:"components,omitempty"`
}

// ScoreCache memoizes score entries with a bounded TTL. Concurrent
// writers racing to populate the same key are acceptable; recomputation
// is idempotent, so last-write-wins.
type ScoreCache interface {
	// Get returns the cached entry, whether it was present, and an error
	// only when the backend is unreachable (ErrCacheUnavailable wrapped).
	Get(key string) (ScoreEntry, bool, error)

	// Set stores an entry with the given TTL. Backend failures are
	// swallowed by implementations; callers never fail a request on Set.
	Set(key string, entry ScoreEntry, ttl time.Duration)

	// Invalidate removes an entry.
	Invalidate(key string)
}

// ModelScorer is the black-box external inference capability. The engine
// treats it as an opaque score function with a deadline.
type ModelScorer interface {
	// Invoke returns a relevance score in [0, 1] for the given input.
	Invoke(ctx context.Context, input string) (float64, error)
}

// BaseScorer computes preference relevance independent of live context.
type BaseScorer interface {
	// ScoreBase returns a score in [0, 1] and a per-signal contribution
	// breakdown. Deterministic for identical inputs and weights.
	ScoreBase(place *models.Place, prefs *models.UserPreferences, weights SignalWeights) (float64, map[string]float64, error)
}

// ContextualScorer adjusts base scores using a context snapshot.
type ContextualScorer interface {
	// ScoreContextual returns the combined score in [0, 1] and the factor
	// breakdown. Pure function of its inputs.
	ScoreContextual(sp *models.ScoredPlace, snap *models.ContextSnapshot, constraints *models.Constraints, weights SignalWeights) (float64, map[string]float64)
}

// ConstraintFilter removes or penalizes places violating hard constraints.
type ConstraintFilter interface {
	// Filter returns the surviving places. An empty result is valid and
	// must propagate to the assembler.
	Filter(places []models.ScoredPlace, constraints *models.Constraints, prefs *models.UserPreferences) []models.ScoredPlace
}

// Assembler selects and schedules an ordered subset of surviving places.
type Assembler interface {
	// Assemble returns a budget- and schedule-feasible itinerary, or
	// ErrInsufficientCandidates / ErrNoFeasibleOrdering.
	Assemble(places []models.ScoredPlace, constraints *models.Constraints, prefs *models.UserPreferences) (*models.Itinerary, error)
}

// Ranker produces the top-N recommendation ordering.
type Ranker interface {
	// Rank returns up to topN places strictly descending by combined
	// score with a stable, deterministic tie-break.
	Rank(places []models.ScoredPlace, topN int) []models.ScoredPlace
}

// PreferencesHash returns a stable digest of the preference profile,
// used in score-cache keys and feedback events.
func PreferencesHash(prefs *models.UserPreferences) string {
	styles := make([]string, len(prefs.Styles))
	copy(styles, prefs.Styles)
	sort.Strings(styles)

	h := sha256.New()
	fmt.Fprintf(h, "styles=%s|budget=%s|access=%s|dur=%d",
		strings.Join(styles, ","), prefs.Budget, prefs.Accessibility, prefs.Duration)
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}

// ContextHash returns a stable digest of the scoring-relevant snapshot
// fields. Snapshots sharing a region/time bucket hash identically, which
// is what makes cached scores reusable across concurrent requests.
func ContextHash(snap *models.ContextSnapshot) string {
	h := sha256.New()
	fmt.Fprintf(h, "w=%s|t=%.1f|p=%.2f|x=%t|s=%s|c=%.2f|e=%t|q=%d|r=%s|a=%d",
		snap.Weather, snap.Temperature, snap.PrecipitationProbability,
		snap.ExtremeWeather, snap.Season, snap.CrowdLevel,
		snap.SpecialEvent, snap.QueueMinutes, snap.Region,
		snap.AsOf.Unix())
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}
