// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the relative contribution of each scoring signal.
	// Weights are normalized at runtime, so they don't need to sum to 1.0.
	Weights SignalWeights `json:"weights" koanf:"weights"`

	// Scoring contains parameters for the base and contextual scorers.
	Scoring ScoringConfig `json:"scoring" koanf:"scoring"`

	// Assembly contains parameters for the itinerary assembler.
	Assembly AssemblyConfig `json:"assembly" koanf:"assembly"`

	// Feedback contains parameters for the online weight-update loop.
	Feedback FeedbackConfig `json:"feedback" koanf:"feedback"`

	// Limits contains operational limits and timeout budgets.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains score-cache parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// SignalWeights defines the relative contribution of each scoring signal.
// The feedback loop is the only writer; scorers read an immutable snapshot
// taken at the start of each request.
type SignalWeights struct {
	// StyleMatch is the weight of preference-tag/category overlap.
	StyleMatch float64 `json:"style_match" koanf:"style_match"`

	// WeatherFit is the weight of the weather suitability factor.
	WeatherFit float64 `json:"weather_fit" koanf:"weather_fit"`

	// CrowdPenalty is the weight of the crowd-level penalty.
	CrowdPenalty float64 `json:"crowd_penalty" koanf:"crowd_penalty"`

	// Popularity is the weight of the base popularity prior.
	Popularity float64 `json:"popularity" koanf:"popularity"`
}

// Normalize returns a copy with weights normalized to sum to 1.0.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w SignalWeights) Normalize() SignalWeights {
	sum := w.StyleMatch + w.WeatherFit + w.CrowdPenalty + w.Popularity

	if sum == 0 {
		const equalWeight = 1.0 / 4.0
		return SignalWeights{
			StyleMatch: equalWeight, WeatherFit: equalWeight,
			CrowdPenalty: equalWeight, Popularity: equalWeight,
		}
	}

	return SignalWeights{
		StyleMatch:   w.StyleMatch / sum,
		WeatherFit:   w.WeatherFit / sum,
		CrowdPenalty: w.CrowdPenalty / sum,
		Popularity:   w.Popularity / sum,
	}
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w SignalWeights) Sum() float64 {
	return w.StyleMatch + w.WeatherFit + w.CrowdPenalty + w.Popularity
}

// ToMap returns the weights as a string-keyed map for serialization.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w SignalWeights) ToMap() map[string]float64 {
	return map[string]float64{
		"style_match":   w.StyleMatch,
		"weather_fit":   w.WeatherFit,
		"crowd_penalty": w.CrowdPenalty,
		"popularity":    w.Popularity,
	}
}

// ScoringConfig contains parameters for the base and contextual scorers.
type ScoringConfig struct {
	// EmptyStyleFallback controls the zero-matching-style-tag policy.
	// When true, preferences without any style tag fall back to
	// popularity-only scoring; when false, they fail with ErrInvalidInput.
	// Default: true.
	EmptyStyleFallback bool `json:"empty_style_fallback" koanf:"empty_style_fallback"`

	// OpeningBonus is the additive bonus when a place's schedule fully
	// covers the request's preferred time window.
	// Default: 0.05.
	OpeningBonus float64 `json:"opening_bonus" koanf:"opening_bonus"`

	// MaxCrowdPenalty caps the multiplicative crowd penalty.
	// Default: 0.4.
	MaxCrowdPenalty float64 `json:"max_crowd_penalty" koanf:"max_crowd_penalty"`

	// MinWeatherFactor is the lower bound of the weather factor.
	// Default: 0.5.
	MinWeatherFactor float64 `json:"min_weather_factor" koanf:"min_weather_factor"`

	// MaxWeatherFactor is the upper bound of the weather factor.
	// Default: 1.2.
	MaxWeatherFactor float64 `json:"max_weather_factor" koanf:"max_weather_factor"`

	// ModelBlend is the share of the base score taken from the external
	// model scorer when one is configured. Zero disables blending.
	// Default: 0.
	ModelBlend float64 `json:"model_blend" koanf:"model_blend"`
}

// AssemblyConfig contains parameters for the itinerary assembler.
type AssemblyConfig struct {
	// MaxPlaces caps the number of stops per itinerary.
	// Default: 8.
	MaxPlaces int `json:"max_places" koanf:"max_places"`

	// MaxBacktracks bounds the retries when scheduling a chosen set fails.
	// Default: 3.
	MaxBacktracks int `json:"max_backtracks" koanf:"max_backtracks"`

	// TravelSpeed converts travel distance to time, meters per minute.
	// Default: 80 (brisk urban walking plus transit).
	TravelSpeed float64 `json:"travel_speed" koanf:"travel_speed"`

	// DefaultVisitDuration is assumed for places without a nominal duration.
	// Default: 45m.
	DefaultVisitDuration time.Duration `json:"default_visit_duration" koanf:"default_visit_duration"`

	// SoftPenalty is the score multiplier for places outside the preferred
	// time window but inside their open schedule.
	// Default: 0.5.
	SoftPenalty float64 `json:"soft_penalty" koanf:"soft_penalty"`
}

// FeedbackConfig contains parameters for the online weight-update loop.
type FeedbackConfig struct {
	// QueueSize bounds the event queue. Publishing to a full queue drops
	// the event; the request path never blocks.
	// Default: 1024.
	QueueSize int `json:"queue_size" koanf:"queue_size"`

	// LearningRate is the EMA step applied per event.
	// Default: 0.05.
	LearningRate float64 `json:"learning_rate" koanf:"learning_rate"`

	// MaxLearningRate bounds the effective step to prevent oscillation.
	// Default: 0.2.
	MaxLearningRate float64 `json:"max_learning_rate" koanf:"max_learning_rate"`

	// FlushInterval is how often accumulated events are applied.
	// Default: 5s.
	FlushInterval time.Duration `json:"flush_interval" koanf:"flush_interval"`

	// MaxBatch applies accumulated events early once this many are buffered.
	// Default: 64.
	MaxBatch int `json:"max_batch" koanf:"max_batch"`

	// MinStyleWeight floors the style-match weight so repeated rejections
	// can never drive it to zero.
	// Default: 0.05.
	MinStyleWeight float64 `json:"min_style_weight" koanf:"min_style_weight"`
}

// LimitsConfig contains operational limits and timeout budgets.
type LimitsConfig struct {
	// MaxCandidates is the maximum number of catalog places to score.
	// Default: 500.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// DefaultTopN is the default recommendation count.
	// Default: 10.
	DefaultTopN int `json:"default_top_n" koanf:"default_top_n"`

	// MaxTopN is the maximum allowed recommendation count.
	// Default: 50.
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`

	// ScoringTimeout is the budget for base plus contextual scoring.
	// Default: 1s (p95 service-level target).
	ScoringTimeout time.Duration `json:"scoring_timeout" koanf:"scoring_timeout"`

	// GenerateTimeout is the budget for full itinerary generation.
	// Default: 2s (p95 service-level target).
	GenerateTimeout time.Duration `json:"generate_timeout" koanf:"generate_timeout"`

	// ContextTimeout is the budget for building a context snapshot.
	// The retry after a timeout gets half of this budget.
	// Default: 800ms.
	ContextTimeout time.Duration `json:"context_timeout" koanf:"context_timeout"`
}

// CacheConfig contains score-cache parameters.
type CacheConfig struct {
	// Enabled controls whether score memoization is active.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the score-entry time-to-live.
	// Default: 10m (matches the context snapshot validity window).
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// SnapshotValidity is the context snapshot reuse window.
	// Default: 10m.
	SnapshotValidity time.Duration `json:"snapshot_validity" koanf:"snapshot_validity"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: SignalWeights{
			StyleMatch:   0.40,
			WeatherFit:   0.25,
			CrowdPenalty: 0.20,
			Popularity:   0.15,
		},
		Scoring: ScoringConfig{
			EmptyStyleFallback: true,
			OpeningBonus:       0.05,
			MaxCrowdPenalty:    0.4,
			MinWeatherFactor:   0.5,
			MaxWeatherFactor:   1.2,
			ModelBlend:         0,
		},
		Assembly: AssemblyConfig{
			MaxPlaces:            8,
			MaxBacktracks:        3,
			TravelSpeed:          80,
			DefaultVisitDuration: 45 * time.Minute,
			SoftPenalty:          0.5,
		},
		Feedback: FeedbackConfig{
			QueueSize:       1024,
			LearningRate:    0.05,
			MaxLearningRate: 0.2,
			FlushInterval:   5 * time.Second,
			MaxBatch:        64,
			MinStyleWeight:  0.05,
		},
		Limits: LimitsConfig{
			MaxCandidates:   500,
			DefaultTopN:     10,
			MaxTopN:         50,
			ScoringTimeout:  time.Second,
			GenerateTimeout: 2 * time.Second,
			ContextTimeout:  800 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled:          true,
			TTL:              10 * time.Minute,
			SnapshotValidity: 10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Weights.StyleMatch < 0 || c.Weights.WeatherFit < 0 ||
		c.Weights.CrowdPenalty < 0 || c.Weights.Popularity < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}

	if c.Scoring.OpeningBonus < 0 || c.Scoring.OpeningBonus > 0.5 {
		return fmt.Errorf("scoring.opening_bonus must be in [0, 0.5], got %f", c.Scoring.OpeningBonus)
	}
	if c.Scoring.MaxCrowdPenalty < 0 || c.Scoring.MaxCrowdPenalty >= 1 {
		return fmt.Errorf("scoring.max_crowd_penalty must be in [0, 1), got %f", c.Scoring.MaxCrowdPenalty)
	}
	if c.Scoring.MinWeatherFactor <= 0 || c.Scoring.MinWeatherFactor > c.Scoring.MaxWeatherFactor {
		return fmt.Errorf("scoring weather factor bounds invalid: [%f, %f]",
			c.Scoring.MinWeatherFactor, c.Scoring.MaxWeatherFactor)
	}
	if c.Scoring.ModelBlend < 0 || c.Scoring.ModelBlend > 1 {
		return fmt.Errorf("scoring.model_blend must be in [0, 1], got %f", c.Scoring.ModelBlend)
	}

	if c.Assembly.MaxPlaces < 1 {
		return fmt.Errorf("assembly.max_places must be positive, got %d", c.Assembly.MaxPlaces)
	}
	if c.Assembly.MaxBacktracks < 0 {
		return fmt.Errorf("assembly.max_backtracks must be non-negative, got %d", c.Assembly.MaxBacktracks)
	}
	if c.Assembly.TravelSpeed <= 0 {
		return fmt.Errorf("assembly.travel_speed must be positive, got %f", c.Assembly.TravelSpeed)
	}
	if c.Assembly.DefaultVisitDuration <= 0 {
		return fmt.Errorf("assembly.default_visit_duration must be positive, got %v", c.Assembly.DefaultVisitDuration)
	}
	if c.Assembly.SoftPenalty <= 0 || c.Assembly.SoftPenalty > 1 {
		return fmt.Errorf("assembly.soft_penalty must be in (0, 1], got %f", c.Assembly.SoftPenalty)
	}

	if c.Feedback.QueueSize < 1 {
		return fmt.Errorf("feedback.queue_size must be positive, got %d", c.Feedback.QueueSize)
	}
	if c.Feedback.LearningRate <= 0 || c.Feedback.LearningRate > 1 {
		return fmt.Errorf("feedback.learning_rate must be in (0, 1], got %f", c.Feedback.LearningRate)
	}
	if c.Feedback.MaxLearningRate < c.Feedback.LearningRate {
		return fmt.Errorf("feedback.max_learning_rate must be >= learning_rate, got %f < %f",
			c.Feedback.MaxLearningRate, c.Feedback.LearningRate)
	}
	if c.Feedback.FlushInterval <= 0 {
		return fmt.Errorf("feedback.flush_interval must be positive, got %v", c.Feedback.FlushInterval)
	}

	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d",
			c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.ScoringTimeout <= 0 || c.Limits.GenerateTimeout <= 0 || c.Limits.ContextTimeout <= 0 {
		return fmt.Errorf("limits timeouts must be positive")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.SnapshotValidity <= 0 {
		return fmt.Errorf("cache.snapshot_validity must be positive, got %v", c.Cache.SnapshotValidity)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Weights:  c.Weights,
		Scoring:  c.Scoring,
		Assembly: c.Assembly,
		Feedback: c.Feedback,
		Limits:   c.Limits,
		Cache:    c.Cache,
	}
}
