// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package recommend

import (
	"sync/atomic"
	"time"
)

// WeightsSnapshot is an immutable, versioned view of the scoring weights.
// Readers hold one snapshot for the duration of a request, so concurrent
// updates can never expose a partially-written mixture.
type WeightsSnapshot struct {
	// Weights is the normalized signal-weight set (sums to 1.0).
	Weights SignalWeights `json:"weights"`

	// Version increases by one on every applied update.
	Version int64 `json:"version"`

	// UpdatedAt is when this snapshot was installed.
	UpdatedAt time.Time `json:"updated_at"`
}

// WeightStore holds the process-wide scoring weights using copy-on-write
// snapshot replacement. Multi-reader, single-writer: the feedback loop is
// the sole writer.
type WeightStore struct {
	current atomic.Pointer[WeightsSnapshot]
}

// NewWeightStore creates a store seeded with the given weights.
// The initial weights are normalized so scores stay in [0, 1].
func NewWeightStore(initial SignalWeights) *WeightStore {
	s := &WeightStore{}
	s.current.Store(&WeightsSnapshot{
		Weights:   initial.Normalize(),
		Version:   1,
		UpdatedAt: time.Now(),
	})
	return s
}

// Snapshot returns the current immutable weights snapshot.
func (s *WeightStore) Snapshot() WeightsSnapshot {
	return *s.current.Load()
}

// Swap installs a new weight set atomically and returns the new snapshot.
// The weights are normalized before installation so the sum invariant
// holds regardless of the caller's arithmetic.
func (s *WeightStore) Swap(w SignalWeights) WeightsSnapshot {
	prev := s.current.Load()
	next := &WeightsSnapshot{
		Weights:   w.Normalize(),
		Version:   prev.Version + 1,
		UpdatedAt: time.Now(),
	}
	s.current.Store(next)
	return *next
}
