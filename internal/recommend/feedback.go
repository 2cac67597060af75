// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package recommend

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// FeedbackState describes what the loop is currently doing.
type FeedbackState int32

// Feedback loop states.
const (
	// FeedbackIdle means the loop is not running.
	FeedbackIdle FeedbackState = iota

	// FeedbackAccumulating means the loop is buffering events.
	FeedbackAccumulating

	// FeedbackApplying means a batch update is in progress.
	FeedbackApplying
)

// String returns the state name.
func (s FeedbackState) String() string {
	switch s {
	case FeedbackIdle:
		return "idle"
	case FeedbackAccumulating:
		return "accumulating"
	case FeedbackApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// FeedbackStats is a point-in-time counter snapshot for observability.
type FeedbackStats struct {
	State     string `json:"state"`
	Published int64  `json:"published"`
	Dropped   int64  `json:"dropped"`
	Malformed int64  `json:"malformed"`
	Applied   int64  `json:"applied"`
	Batches   int64  `json:"batches"`
}

// FeedbackLoop consumes user outcome events and evolves the scoring
// weights with bounded exponential-moving-average steps.
//
// Publish never blocks the request path: events land in a bounded queue
// and are dropped with a counter when it is full. Updates are applied in
// batches on a timer (or earlier when the batch fills), and installed
// through the weight store's copy-on-write swap, so in-flight requests
// keep the snapshot they started with.
type FeedbackLoop struct {
	cfg    FeedbackConfig
	store  *WeightStore
	logger zerolog.Logger

	events chan models.FeedbackEvent
	state  atomic.Int32

	published atomic.Int64
	dropped   atomic.Int64
	malformed atomic.Int64
	applied   atomic.Int64
	batches   atomic.Int64
}

// NewFeedbackLoop creates a feedback loop writing to the given store.
func NewFeedbackLoop(cfg FeedbackConfig, store *WeightStore, logger zerolog.Logger) *FeedbackLoop {
	return &FeedbackLoop{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "feedback").Logger(),
		events: make(chan models.FeedbackEvent, cfg.QueueSize),
	}
}

// Publish enqueues one outcome event. Returns false when the event is
// malformed or the queue is full; in both cases the event is dropped and
// counted, and the caller proceeds normally.
func (f *FeedbackLoop) Publish(event models.FeedbackEvent) bool {
	if event.PlaceID == "" || !event.Outcome.Valid() {
		f.malformed.Add(1)
		f.logger.Warn().
			Str("place_id", event.PlaceID).
			Str("outcome", string(event.Outcome)).
			Msg("Dropping malformed feedback event")
		return false
	}

	select {
	case f.events <- event:
		f.published.Add(1)
		return true
	default:
		f.dropped.Add(1)
		return false
	}
}

// Serve runs the accumulate/apply cycle until the context is canceled.
// It satisfies suture.Service so the supervisor tree can restart it.
func (f *FeedbackLoop) Serve(ctx context.Context) error {
	f.state.Store(int32(FeedbackAccumulating))
	defer f.state.Store(int32(FeedbackIdle))

	f.logger.Info().
		Int("queue_size", f.cfg.QueueSize).
		Dur("flush_interval", f.cfg.FlushInterval).
		Float64("learning_rate", f.cfg.LearningRate).
		Msg("Feedback loop started")

	ticker := time.NewTicker(f.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]models.FeedbackEvent, 0, f.cfg.MaxBatch)
	for {
		select {
		case <-ctx.Done():
			// Apply what we have so accepted feedback is not lost on
			// shutdown.
			f.applyBatch(batch)
			return ctx.Err()

		case event := <-f.events:
			batch = append(batch, event)
			if len(batch) >= f.cfg.MaxBatch {
				f.applyBatch(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			f.applyBatch(batch)
			batch = batch[:0]
		}
	}
}

// State returns the current loop state.
func (f *FeedbackLoop) State() FeedbackState {
	return FeedbackState(f.state.Load())
}

// Stats returns a counter snapshot.
func (f *FeedbackLoop) Stats() FeedbackStats {
	return FeedbackStats{
		State:     f.State().String(),
		Published: f.published.Load(),
		Dropped:   f.dropped.Load(),
		Malformed: f.malformed.Load(),
		Applied:   f.applied.Load(),
		Batches:   f.batches.Load(),
	}
}

// applyBatch folds a batch of events into the weights and installs the
// result. A no-op for empty batches.
func (f *FeedbackLoop) applyBatch(batch []models.FeedbackEvent) {
	if len(batch) == 0 {
		return
	}

	f.state.Store(int32(FeedbackApplying))
	defer f.state.Store(int32(FeedbackAccumulating))

	weights := f.store.Snapshot().Weights
	for i := range batch {
		weights = f.applyEvent(weights, &batch[i])
	}

	snap := f.store.Swap(weights)
	f.applied.Add(int64(len(batch)))
	f.batches.Add(1)

	f.logger.Debug().
		Int("batch_size", len(batch)).
		Int64("weights_version", snap.Version).
		Float64("style_match", snap.Weights.StyleMatch).
		Msg("Applied feedback batch")
}

// applyEvent moves the style-match weight toward 1.0 on positive
// outcomes and toward the configured floor on rejections, with the step
// scaled by outcome confidence and clamped to the maximum learning rate.
//
//nolint:gocritic // hugeParam: weights passed by value for immutability
func (f *FeedbackLoop) applyEvent(w SignalWeights, event *models.FeedbackEvent) SignalWeights {
	step := f.cfg.LearningRate * event.Outcome.Confidence()
	if step > f.cfg.MaxLearningRate {
		step = f.cfg.MaxLearningRate
	}

	target := 1.0
	if event.Outcome == models.OutcomeRejected {
		target = f.cfg.MinStyleWeight
	}

	w.StyleMatch += step * (target - w.StyleMatch)
	if w.StyleMatch < f.cfg.MinStyleWeight {
		w.StyleMatch = f.cfg.MinStyleWeight
	}
	return w
}
