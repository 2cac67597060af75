// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package scoring

import (
	"fmt"

	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// BaseScorer computes the preference-relevance score of a place from the
// user's style tags and the place's popularity prior, independent of any
// live context.
//
// The score is a weighted blend:
//
//	score = (w_style * styleMatch + w_pop * popularity) / (w_style + w_pop)
//
// where styleMatch is the fraction of requested style tags that the place's
// categories cover. Deterministic given identical inputs and weights, which
// is what makes the score cache valid.
type BaseScorer struct {
	// emptyStyleFallback selects popularity-only scoring for preferences
	// without style tags instead of rejecting them.
	emptyStyleFallback bool
}

// NewBaseScorer creates a base scorer.
func NewBaseScorer(cfg recommend.ScoringConfig) *BaseScorer {
	return &BaseScorer{
		emptyStyleFallback: cfg.EmptyStyleFallback,
	}
}

// ScoreBase implements recommend.BaseScorer.
func (s *BaseScorer) ScoreBase(place *models.Place, prefs *models.UserPreferences, weights recommend.SignalWeights) (float64, map[string]float64, error) {
	popularity := clamp01(place.Popularity)

	if len(prefs.Styles) == 0 {
		if !s.emptyStyleFallback {
			return 0, nil, fmt.Errorf("%w: preferences contain no style tag", recommend.ErrInvalidInput)
		}
		// Popularity-only fallback: the style signal carries no information.
		return popularity, map[string]float64{
			"style_match": 0,
			"popularity":  popularity,
		}, nil
	}

	match := styleMatch(place, prefs.Styles)

	wStyle := weights.StyleMatch
	wPop := weights.Popularity
	denom := wStyle + wPop
	if denom == 0 {
		// Both base signals weighted out; treat them as equal so the
		// score stays defined and bounded.
		wStyle, wPop, denom = 1, 1, 2
	}

	styleContribution := wStyle * match / denom
	popContribution := wPop * popularity / denom
	score := clamp01(styleContribution + popContribution)

	return score, map[string]float64{
		"style_match": styleContribution,
		"popularity":  popContribution,
	}, nil
}

// styleMatch returns the fraction of requested styles covered by the
// place's category tags.
func styleMatch(place *models.Place, styles []string) float64 {
	matches := 0
	for _, style := range styles {
		if place.HasCategory(style) {
			matches++
		}
	}
	return float64(matches) / float64(len(styles))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
