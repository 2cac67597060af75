// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package itinerary

import (
	"testing"

	"github.com/Smile2578/anabai-ml/internal/models"
)

func TestRankOrdering(t *testing.T) {
	r := NewRanker()

	tests := []struct {
		name   string
		places []models.ScoredPlace
		topN   int
		want   []string
	}{
		{
			name: "descending by combined score",
			places: []models.ScoredPlace{
				scored("low", 0.3),
				scored("high", 0.9),
				scored("mid", 0.6),
			},
			topN: 10,
			want: []string{"high", "mid", "low"},
		},
		{
			name: "tie broken by popularity then ID",
			places: []models.ScoredPlace{
				scored("b", 0.8),
				scored("a", 0.8),
				scored("c", 0.8, withPopularity(0.9)),
			},
			topN: 10,
			want: []string{"c", "a", "b"},
		},
		{
			name: "truncates to topN",
			places: []models.ScoredPlace{
				scored("p1", 0.9),
				scored("p2", 0.8),
				scored("p3", 0.7),
			},
			topN: 2,
			want: []string{"p1", "p2"},
		},
		{
			name:   "empty input",
			places: nil,
			topN:   5,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Rank(tt.places, tt.topN)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d places, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].Place.ID != id {
					t.Errorf("position %d: got %s, want %s", i, got[i].Place.ID, id)
				}
			}
		})
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	r := NewRanker()

	places := []models.ScoredPlace{
		scored("low", 0.3),
		scored("high", 0.9),
	}
	_ = r.Rank(places, 10)

	if places[0].Place.ID != "low" || places[1].Place.ID != "high" {
		t.Error("Rank reordered its input slice")
	}
}
