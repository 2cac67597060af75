// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package itinerary

import (
	"sort"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// Ranker produces the standalone top-N recommendation ordering.
// Stateless and safe for concurrent use.
type Ranker struct{}

// NewRanker creates a ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank implements recommend.Ranker. The input slice is not modified.
// Ordering is strictly deterministic: combined score descending, then
// popularity descending, then ID ascending.
func (r *Ranker) Rank(places []models.ScoredPlace, topN int) []models.ScoredPlace {
	out := make([]models.ScoredPlace, len(places))
	copy(out, places)

	sort.SliceStable(out, func(i, j int) bool {
		return lessByScore(&out[i], &out[j])
	})

	if topN > 0 && topN < len(out) {
		out = out[:topN]
	}
	return out
}
