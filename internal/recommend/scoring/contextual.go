// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package scoring

import (
	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// ContextualScorer adjusts base scores using the live context snapshot.
//
// The combined score follows
//
//	combined = base * weather_factor * (1 - crowd_penalty) + opening_bonus
//
// clamped to [0, 1], with weather_factor in [minWeather, maxWeather],
// crowd_penalty in [0, maxCrowd] and opening_bonus in {0, bonus}.
//
// ScoreContextual is a pure function of its inputs: no hidden state, so
// two calls with the same snapshot produce identical results.
type ContextualScorer struct {
	openingBonus     float64
	maxCrowdPenalty  float64
	minWeatherFactor float64
	maxWeatherFactor float64

	// reference weights scale the influence of the learned weights: a
	// weight above its default amplifies the factor's deviation from
	// neutral, below attenuates it.
	refWeatherWeight float64
	refCrowdWeight   float64
}

// NewContextualScorer creates a contextual scorer.
func NewContextualScorer(cfg recommend.ScoringConfig) *ContextualScorer {
	defaults := recommend.DefaultConfig().Weights.Normalize()
	return &ContextualScorer{
		openingBonus:     cfg.OpeningBonus,
		maxCrowdPenalty:  cfg.MaxCrowdPenalty,
		minWeatherFactor: cfg.MinWeatherFactor,
		maxWeatherFactor: cfg.MaxWeatherFactor,
		refWeatherWeight: defaults.WeatherFit,
		refCrowdWeight:   defaults.CrowdPenalty,
	}
}

// ScoreContextual implements recommend.ContextualScorer.
func (s *ContextualScorer) ScoreContextual(sp *models.ScoredPlace, snap *models.ContextSnapshot, constraints *models.Constraints, weights recommend.SignalWeights) (float64, map[string]float64) {
	weather := s.weatherFactor(&sp.Place, snap, weights)
	crowd := s.crowdPenalty(&sp.Place, snap, weights)
	bonus := s.openingBonusFor(&sp.Place, constraints)

	combined := clamp01(sp.BaseScore*weather*(1-crowd) + bonus)

	return combined, map[string]float64{
		"weather_factor": weather,
		"crowd_penalty":  crowd,
		"opening_bonus":  bonus,
	}
}

// weatherFactor returns the multiplicative weather suitability factor.
// Indoor places are unaffected; outdoor places are penalized in poor
// weather and get a mild bonus in ideal conditions.
func (s *ContextualScorer) weatherFactor(place *models.Place, snap *models.ContextSnapshot, weights recommend.SignalWeights) float64 {
	if !place.Outdoor {
		return 1.0
	}
	if snap.ExtremeWeather {
		return s.minWeatherFactor
	}

	raw := conditionFactor(snap.Weather)

	// Rain probability drags the factor toward the floor even when the
	// coarse condition still reads fair.
	raw *= 1.0 - snap.PrecipitationProbability*0.3

	// Temperature banding: hostile bands shave the factor.
	switch {
	case snap.Temperature < 5 || snap.Temperature > 35:
		raw *= 0.6
	case snap.Temperature < 10 || snap.Temperature > 30:
		raw *= 0.8
	}

	raw *= seasonFactor(snap.Season)

	// Scale the deviation from neutral by the learned weather weight so
	// the feedback loop can strengthen or mute the signal.
	scaled := 1.0 + (raw-1.0)*(weights.WeatherFit/s.refWeatherWeight)

	return clamp(scaled, s.minWeatherFactor, s.maxWeatherFactor)
}

// conditionFactor maps a coarse weather condition to a raw factor for
// outdoor places.
func conditionFactor(w models.WeatherCondition) float64 {
	switch w {
	case models.WeatherSunny:
		return 1.2
	case models.WeatherCloudy:
		return 1.0
	case models.WeatherRainy:
		return 0.7
	case models.WeatherSnowy:
		return 0.6
	case models.WeatherStorm:
		return 0.5
	default:
		return 1.0
	}
}

// seasonFactor nudges outdoor suitability by season.
func seasonFactor(s models.Season) float64 {
	switch s {
	case models.SeasonSpring:
		return 1.1
	case models.SeasonSummer:
		return 0.95
	case models.SeasonAutumn:
		return 1.05
	case models.SeasonWinter:
		return 0.85
	default:
		return 1.0
	}
}

// crowdPenalty returns the multiplicative crowd penalty for places whose
// appeal degrades with crowding. Crowd-tolerant places are unaffected.
func (s *ContextualScorer) crowdPenalty(place *models.Place, snap *models.ContextSnapshot, weights recommend.SignalWeights) float64 {
	if place.CrowdTolerant {
		return 0
	}

	penalty := s.maxCrowdPenalty * clamp01(snap.CrowdLevel)

	if snap.SpecialEvent {
		penalty += 0.05
	}
	switch {
	case snap.QueueMinutes > 60:
		penalty += 0.1
	case snap.QueueMinutes > 30:
		penalty += 0.05
	}

	scaled := penalty * (weights.CrowdPenalty / s.refCrowdWeight)

	return clamp(scaled, 0, s.maxCrowdPenalty)
}

// openingBonusFor returns the small additive bonus when the place's
// schedule fully covers the request's preferred time window.
func (s *ContextualScorer) openingBonusFor(place *models.Place, constraints *models.Constraints) float64 {
	if constraints == nil || constraints.WindowEnd <= constraints.WindowStart {
		return 0
	}
	if place.Hours.AlwaysOpen() {
		return 0
	}
	if place.Hours.ContainsWindow(constraints.WindowStart, constraints.WindowEnd) {
		return s.openingBonus
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
