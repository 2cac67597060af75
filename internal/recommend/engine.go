// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// Engine coordinates the scoring and assembly pipeline:
// candidates -> base scoring -> contextual re-scoring -> constraint
// filtering -> assembly or ranking. It is safe for concurrent use; all
// mutable state lives in the weight store and the score cache.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalog    CatalogProvider
	snapshots  SnapshotProvider
	cache      ScoreCache
	weights    *WeightStore
	base       BaseScorer
	contextual ContextualScorer
	filter     ConstraintFilter
	assembler  Assembler
	ranker     Ranker

	// model is optional; when set, its score is blended into the base
	// score with the configured share.
	model ModelScorer

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// EngineDeps bundles the pipeline stage implementations.
type EngineDeps struct {
	Catalog    CatalogProvider
	Snapshots  SnapshotProvider
	Cache      ScoreCache
	Weights    *WeightStore
	Base       BaseScorer
	Contextual ContextualScorer
	Filter     ConstraintFilter
	Assembler  Assembler
	Ranker     Ranker
	Model      ModelScorer
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps EngineDeps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if deps.Catalog == nil || deps.Weights == nil || deps.Base == nil ||
		deps.Contextual == nil || deps.Filter == nil ||
		deps.Assembler == nil || deps.Ranker == nil {
		return nil, fmt.Errorf("incomplete engine dependencies")
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "engine").Logger(),
		catalog:    deps.Catalog,
		snapshots:  deps.Snapshots,
		cache:      deps.Cache,
		weights:    deps.Weights,
		base:       deps.Base,
		contextual: deps.Contextual,
		filter:     deps.Filter,
		assembler:  deps.Assembler,
		ranker:     deps.Ranker,
		model:      deps.Model,
	}, nil
}

// Generate runs the full pipeline and assembles a multi-stop itinerary.
func (e *Engine) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	e.requestCount.Add(1)

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.GenerateTimeout)
	defer cancel()

	logger := e.requestLogger(req.RequestID, req.Region)

	if err := validateGenerateRequest(req); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	snap, err := e.resolveSnapshot(ctx, req.Context, req.Region, logger)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	weights := e.weights.Snapshot()

	scored, total, cacheHits, err := e.scoreCandidates(ctx, &req.Preferences, &req.Constraints, req.Region, &snap, &weights)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	survivors := e.filter.Filter(scored, &req.Constraints, &req.Preferences)
	logger.Debug().
		Int("candidates", total).
		Int("survivors", len(survivors)).
		Msg("Constraint filtering complete")

	it, err := e.assembler.Assemble(survivors, &req.Constraints, &req.Preferences)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	logger.Info().
		Int("stops", len(it.Stops)).
		Float64("total_score", it.TotalScore).
		Dur("elapsed", time.Since(start)).
		Msg("Itinerary generated")

	return &GenerateResponse{
		Itinerary:       it,
		TotalCandidates: total,
		Metadata:        e.metadata(req.RequestID, req.Region, &snap, &weights, cacheHits, start),
	}, nil
}

// Recommend runs scoring and filtering, then ranks standalone top-N
// recommendations without assembling a route.
func (e *Engine) Recommend(ctx context.Context, req *RecommendRequest) (*RecommendResponse, error) {
	start := time.Now()
	e.requestCount.Add(1)

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.ScoringTimeout)
	defer cancel()

	logger := e.requestLogger(req.RequestID, req.Region)

	topN, err := e.resolveTopN(req.TopN)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if err := validatePreferences(&req.Preferences); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	snap, err := e.resolveSnapshot(ctx, req.Context, req.Region, logger)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	weights := e.weights.Snapshot()

	scored, total, cacheHits, err := e.scoreCandidates(ctx, &req.Preferences, &req.Constraints, req.Region, &snap, &weights)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	survivors := e.filter.Filter(scored, &req.Constraints, &req.Preferences)
	ranked := e.ranker.Rank(survivors, topN)

	logger.Info().
		Int("candidates", total).
		Int("returned", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendations ranked")

	return &RecommendResponse{
		Places:          ranked,
		TotalCandidates: total,
		Metadata:        e.metadata(req.RequestID, req.Region, &snap, &weights, cacheHits, start),
	}, nil
}

// ScoreBase scores a single place against preferences without live
// context. Exposed for the score inspection endpoint.
func (e *Engine) ScoreBase(ctx context.Context, place *models.Place, prefs *models.UserPreferences) (*models.ScoredPlace, error) {
	if err := validatePreferences(prefs); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	weights := e.weights.Snapshot()
	score, components, err := e.scoreBaseBlended(ctx, place, prefs, weights.Weights)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	return &models.ScoredPlace{
		Place:         *place,
		BaseScore:     score,
		CombinedScore: score,
		Components:    components,
	}, nil
}

// ScoreContextual scores a single place with a context snapshot applied.
// When snap is nil a snapshot is built for the place's region.
func (e *Engine) ScoreContextual(ctx context.Context, place *models.Place, prefs *models.UserPreferences, constraints *models.Constraints, snap *models.ContextSnapshot) (*models.ScoredPlace, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.ScoringTimeout)
	defer cancel()

	sp, err := e.ScoreBase(ctx, place, prefs)
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolveSnapshot(ctx, snap, place.Region, e.logger)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	weights := e.weights.Snapshot()
	combined, factors := e.contextual.ScoreContextual(sp, &resolved, constraints, weights.Weights)
	sp.ContextualScore = combined
	sp.CombinedScore = combined
	for k, v := range factors {
		sp.Components[k] = v
	}
	return sp, nil
}

// Weights returns the current weight snapshot for inspection endpoints.
func (e *Engine) Weights() WeightsSnapshot {
	return e.weights.Snapshot()
}

// Stats returns pipeline counter values.
func (e *Engine) Stats() map[string]int64 {
	return map[string]int64{
		"requests":     e.requestCount.Load(),
		"cache_hits":   e.cacheHits.Load(),
		"cache_misses": e.cacheMisses.Load(),
		"errors":       e.errorCount.Load(),
	}
}

// scoreCandidates fetches candidates and runs base plus contextual
// scoring, consulting the score cache per place.
func (e *Engine) scoreCandidates(ctx context.Context, prefs *models.UserPreferences, constraints *models.Constraints, region string, snap *models.ContextSnapshot, weights *WeightsSnapshot) ([]models.ScoredPlace, int, int, error) {
	candidates, err := e.catalog.Candidates(ctx, region, prefs.Styles, e.config.Limits.MaxCandidates)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, 0, fmt.Errorf("catalog lookup: %w", ErrUpstreamTimeout)
		}
		return nil, 0, 0, fmt.Errorf("catalog lookup: %w", err)
	}
	if len(candidates) == 0 {
		return nil, 0, 0, fmt.Errorf("region %q has no candidates: %w", region, ErrInsufficientCandidates)
	}

	prefsHash := PreferencesHash(prefs)
	ctxHash := ContextHash(snap)

	scored := make([]models.ScoredPlace, 0, len(candidates))
	cacheHits := 0
	for i := range candidates {
		place := &candidates[i]
		key := e.cacheKey(place.ID, prefsHash, ctxHash, weights.Version)

		if entry, ok := e.cachedEntry(key); ok {
			cacheHits++
			scored = append(scored, models.ScoredPlace{
				Place:           *place,
				BaseScore:       entry.BaseScore,
				ContextualScore: entry.ContextualScore,
				CombinedScore:   entry.CombinedScore,
				Components:      entry.Components,
			})
			continue
		}

		sp, err := e.scorePlace(ctx, place, prefs, constraints, snap, weights.Weights)
		if err != nil {
			return nil, 0, 0, err
		}
		scored = append(scored, *sp)

		e.storeEntry(key, sp)
	}

	return scored, len(candidates), cacheHits, nil
}

// scorePlace runs base and contextual scoring for one candidate.
//
//nolint:gocritic // hugeParam: weights passed by value for immutability
func (e *Engine) scorePlace(ctx context.Context, place *models.Place, prefs *models.UserPreferences, constraints *models.Constraints, snap *models.ContextSnapshot, weights SignalWeights) (*models.ScoredPlace, error) {
	base, components, err := e.scoreBaseBlended(ctx, place, prefs, weights)
	if err != nil {
		return nil, fmt.Errorf("scoring place %s: %w", place.ID, err)
	}

	sp := &models.ScoredPlace{
		Place:      *place,
		BaseScore:  base,
		Components: components,
	}
	combined, factors := e.contextual.ScoreContextual(sp, snap, constraints, weights)
	sp.ContextualScore = combined
	sp.CombinedScore = combined
	for k, v := range factors {
		sp.Components[k] = v
	}
	return sp, nil
}

// scoreBaseBlended computes the base score, blending in the external
// model score when one is configured. Model failures degrade to the
// heuristic score alone; the request does not fail.
//
//nolint:gocritic // hugeParam: weights passed by value for immutability
func (e *Engine) scoreBaseBlended(ctx context.Context, place *models.Place, prefs *models.UserPreferences, weights SignalWeights) (float64, map[string]float64, error) {
	base, components, err := e.base.ScoreBase(place, prefs, weights)
	if err != nil {
		return 0, nil, err
	}

	blend := e.config.Scoring.ModelBlend
	if e.model == nil || blend <= 0 {
		return base, components, nil
	}

	modelScore, err := e.model.Invoke(ctx, place.ID)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("place_id", place.ID).
			Msg("Model scorer unavailable, using heuristic score")
		return base, components, nil
	}

	blended := base*(1-blend) + modelScore*blend
	components["model_score"] = modelScore
	return blended, components, nil
}

// resolveSnapshot returns the request-supplied snapshot when present and
// fresh, otherwise builds one from the snapshot provider with one
// shortened retry. When the provider is unreachable, scoring degrades to
// a neutral default snapshot rather than failing the request.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (e *Engine) resolveSnapshot(ctx context.Context, supplied *models.ContextSnapshot, region string, logger zerolog.Logger) (models.ContextSnapshot, error) {
	if supplied != nil {
		if !supplied.Expired(e.config.Cache.SnapshotValidity, time.Now()) {
			return *supplied, nil
		}
		logger.Debug().Msg("Supplied context snapshot expired, rebuilding")
	}

	if e.snapshots == nil {
		return e.defaultSnapshot(region), nil
	}

	snap, err := e.fetchSnapshot(ctx, region, e.config.Limits.ContextTimeout)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrUpstreamTimeout) {
		return models.ContextSnapshot{}, fmt.Errorf("context snapshot: %w", err)
	}

	// One retry with half the budget, then degrade.
	snap, err = e.fetchSnapshot(ctx, region, e.config.Limits.ContextTimeout/2)
	if err == nil {
		return snap, nil
	}

	logger.Warn().Err(err).
		Str("region", region).
		Msg("Context feeds unavailable, degrading to default snapshot")
	return e.defaultSnapshot(region), nil
}

func (e *Engine) fetchSnapshot(ctx context.Context, region string, budget time.Duration) (models.ContextSnapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	return e.snapshots.Snapshot(fetchCtx, region)
}

// defaultSnapshot is the neutral degraded context: mild weather, average
// crowds, no events. Responses built from it are flagged Degraded.
func (e *Engine) defaultSnapshot(region string) models.ContextSnapshot {
	now := time.Now().UTC()
	return models.ContextSnapshot{
		Weather:     models.WeatherCloudy,
		Temperature: 18,
		Season:      models.SeasonOf(now),
		CrowdLevel:  0.5,
		Region:      region,
		AsOf:        now,
		Degraded:    true,
	}
}

func (e *Engine) cacheKey(placeID, prefsHash, ctxHash string, version int64) string {
	return fmt.Sprintf("score:%s:%s:%s:v%d", placeID, prefsHash, ctxHash, version)
}

// cachedEntry consults the score cache. Backend errors are absorbed and
// counted as misses; memoization is an optimization, never a dependency.
func (e *Engine) cachedEntry(key string) (ScoreEntry, bool) {
	if e.cache == nil || !e.config.Cache.Enabled {
		return ScoreEntry{}, false
	}

	entry, ok, err := e.cache.Get(key)
	if err != nil {
		e.cacheMisses.Add(1)
		e.logger.Warn().Err(err).Msg("Score cache unavailable, recomputing")
		return ScoreEntry{}, false
	}
	if !ok {
		e.cacheMisses.Add(1)
		return ScoreEntry{}, false
	}

	e.cacheHits.Add(1)
	return entry, true
}

func (e *Engine) storeEntry(key string, sp *models.ScoredPlace) {
	if e.cache == nil || !e.config.Cache.Enabled {
		return
	}
	e.cache.Set(key, ScoreEntry{
		BaseScore:       sp.BaseScore,
		ContextualScore: sp.ContextualScore,
		CombinedScore:   sp.CombinedScore,
		Components:      sp.Components,
	}, e.config.Cache.TTL)
}

func (e *Engine) resolveTopN(requested int) (int, error) {
	if requested == 0 {
		return e.config.Limits.DefaultTopN, nil
	}
	if requested < 0 || requested > e.config.Limits.MaxTopN {
		return 0, fmt.Errorf("top_n %d outside [1, %d]: %w", requested, e.config.Limits.MaxTopN, ErrInvalidInput)
	}
	return requested, nil
}

//nolint:gocritic // value return is intentional; zerolog loggers are cheap to copy
func (e *Engine) requestLogger(requestID, region string) zerolog.Logger {
	return e.logger.With().
		Str("request_id", requestID).
		Str("region", region).
		Logger()
}

//nolint:gocritic // hugeParam: snapshot values passed for immutability
func (e *Engine) metadata(requestID, region string, snap *models.ContextSnapshot, weights *WeightsSnapshot, cacheHits int, start time.Time) ResponseMetadata {
	return ResponseMetadata{
		RequestID:      requestID,
		Region:         region,
		WeightsVersion: weights.Version,
		ContextAsOf:    snap.AsOf,
		Degraded:       snap.Degraded,
		CacheHits:      cacheHits,
		LatencyMS:      time.Since(start).Milliseconds(),
		Timestamp:      time.Now().UTC(),
	}
}

func validateGenerateRequest(req *GenerateRequest) error {
	if err := validatePreferences(&req.Preferences); err != nil {
		return err
	}
	c := &req.Constraints
	if c.WindowStart < 0 || c.WindowStart > 1439 {
		return fmt.Errorf("window_start %d outside [0, 1439]: %w", c.WindowStart, ErrInvalidInput)
	}
	if c.WindowEnd < 0 || c.WindowEnd > 1440 {
		return fmt.Errorf("window_end %d outside [0, 1440]: %w", c.WindowEnd, ErrInvalidInput)
	}
	if c.WindowEnd <= c.WindowStart {
		return fmt.Errorf("window [%d, %d] is empty: %w", c.WindowStart, c.WindowEnd, ErrInvalidInput)
	}
	if c.MaxDistance < 0 {
		return fmt.Errorf("max_distance must be non-negative: %w", ErrInvalidInput)
	}
	if c.MaxPlaces < 0 {
		return fmt.Errorf("max_places must be non-negative: %w", ErrInvalidInput)
	}
	return nil
}

func validatePreferences(prefs *models.UserPreferences) error {
	if prefs == nil {
		return fmt.Errorf("preferences required: %w", ErrInvalidInput)
	}
	for _, style := range prefs.Styles {
		if style == "" {
			return fmt.Errorf("empty style tag: %w", ErrInvalidInput)
		}
	}
	if prefs.Budget != "" && !prefs.Budget.Valid() {
		return fmt.Errorf("unknown budget tier %q: %w", prefs.Budget, ErrInvalidInput)
	}
	if prefs.Duration < 0 {
		return fmt.Errorf("duration must be non-negative: %w", ErrInvalidInput)
	}
	return nil
}
