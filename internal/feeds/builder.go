// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// SnapshotBuilder composes weather and crowd reports into context
// snapshots, reusing a snapshot per region within the validity window.
// It implements recommend.SnapshotProvider.
type SnapshotBuilder struct {
	weather  WeatherProvider
	crowd    CrowdProvider
	validity time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]models.ContextSnapshot
}

// NewSnapshotBuilder creates a builder over the given providers.
// validity controls how long a built snapshot is reused per region;
// zero means 10 minutes.
func NewSnapshotBuilder(weather WeatherProvider, crowd CrowdProvider, validity time.Duration, logger zerolog.Logger) *SnapshotBuilder {
	if validity <= 0 {
		validity = 10 * time.Minute
	}
	return &SnapshotBuilder{
		weather:  weather,
		crowd:    crowd,
		validity: validity,
		logger:   logger.With().Str("component", "snapshot_builder").Logger(),
		now:      time.Now,
		cache:    make(map[string]models.ContextSnapshot),
	}
}

// Snapshot returns a context snapshot for the region, building one from
// the feeds if no fresh cached snapshot exists.
//
// Partial feed failure degrades the affected half to neutral defaults
// and marks the snapshot Degraded; only when every feed fails does the
// call return an error. Degraded snapshots are not cached so the next
// request retries the feeds.
func (b *SnapshotBuilder) Snapshot(ctx context.Context, region string) (models.ContextSnapshot, error) {
	region = strings.ToLower(strings.TrimSpace(region))
	now := b.now()

	b.mu.Lock()
	if snap, ok := b.cache[region]; ok && !snap.Expired(b.validity, now) {
		b.mu.Unlock()
		return snap, nil
	}
	b.mu.Unlock()

	snap := models.ContextSnapshot{
		Region: region,
		Season: models.SeasonOf(now),
		AsOf:   now,
	}

	weatherReport, weatherErr := b.weather.Weather(ctx, region)
	if weatherErr != nil {
		b.logger.Warn().Err(weatherErr).Str("region", region).Msg("weather feed failed, using defaults")
		weatherReport = WeatherReport{Condition: models.WeatherCloudy, Temperature: 18}
	}
	snap.Weather = weatherReport.Condition
	snap.Temperature = weatherReport.Temperature
	snap.PrecipitationProbability = weatherReport.PrecipitationProbability
	snap.ExtremeWeather = weatherReport.Extreme

	crowdReport, crowdErr := b.crowd.Crowd(ctx, region)
	if crowdErr != nil {
		b.logger.Warn().Err(crowdErr).Str("region", region).Msg("crowd feed failed, using defaults")
		crowdReport = CrowdReport{Level: 0.5}
	}
	snap.CrowdLevel = crowdReport.Level
	snap.SpecialEvent = crowdReport.SpecialEvent
	snap.QueueMinutes = crowdReport.QueueMinutes

	if weatherErr != nil && crowdErr != nil {
		// Both feeds down, nothing real to report.
		return models.ContextSnapshot{}, fmt.Errorf("%w: region %q: %w", recommend.ErrUpstreamTimeout, region, weatherErr)
	}
	if weatherErr != nil || crowdErr != nil {
		snap.Degraded = true
		return snap, nil
	}

	b.mu.Lock()
	b.cache[region] = snap
	b.mu.Unlock()

	return snap, nil
}

var _ recommend.SnapshotProvider = (*SnapshotBuilder)(nil)

// Invalidate drops the cached snapshot for a region.
func (b *SnapshotBuilder) Invalidate(region string) {
	region = strings.ToLower(strings.TrimSpace(region))
	b.mu.Lock()
	delete(b.cache, region)
	b.mu.Unlock()
}
