// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

type countingWeather struct {
	report WeatherReport
	err    error
	calls  int
}

func (c *countingWeather) Weather(_ context.Context, _ string) (WeatherReport, error) {
	c.calls++
	if c.err != nil {
		return WeatherReport{}, c.err
	}
	return c.report, nil
}

type countingCrowd struct {
	report CrowdReport
	err    error
	calls  int
}

func (c *countingCrowd) Crowd(_ context.Context, _ string) (CrowdReport, error) {
	c.calls++
	if c.err != nil {
		return CrowdReport{}, c.err
	}
	return c.report, nil
}

func TestSnapshotBuilder(t *testing.T) {
	weather := &countingWeather{report: WeatherReport{
		Condition:                models.WeatherSunny,
		Temperature:              22,
		PrecipitationProbability: 0.05,
	}}
	crowd := &countingCrowd{report: CrowdReport{Level: 0.4, QueueMinutes: 10}}

	builder := NewSnapshotBuilder(weather, crowd, 10*time.Minute, zerolog.Nop())

	snap, err := builder.Snapshot(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Weather != models.WeatherSunny || snap.Temperature != 22 {
		t.Errorf("weather not mapped: %+v", snap)
	}
	if snap.CrowdLevel != 0.4 || snap.QueueMinutes != 10 {
		t.Errorf("crowd not mapped: %+v", snap)
	}
	if snap.Region != "tokyo" {
		t.Errorf("region = %q, want normalized tokyo", snap.Region)
	}
	if snap.Degraded {
		t.Error("healthy snapshot marked degraded")
	}
	if snap.Season != models.SeasonOf(snap.AsOf) {
		t.Errorf("season = %s inconsistent with AsOf %v", snap.Season, snap.AsOf)
	}
}

func TestSnapshotBuilderReusesWithinValidity(t *testing.T) {
	weather := &countingWeather{report: WeatherReport{Condition: models.WeatherCloudy}}
	crowd := &countingCrowd{report: CrowdReport{Level: 0.5}}

	builder := NewSnapshotBuilder(weather, crowd, 10*time.Minute, zerolog.Nop())

	for range 3 {
		if _, err := builder.Snapshot(context.Background(), "tokyo"); err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
	}

	if weather.calls != 1 || crowd.calls != 1 {
		t.Errorf("providers called %d/%d times within validity, want 1/1", weather.calls, crowd.calls)
	}

	// A different region gets its own snapshot.
	if _, err := builder.Snapshot(context.Background(), "kyoto"); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if weather.calls != 2 {
		t.Errorf("second region did not trigger a fetch: %d calls", weather.calls)
	}
}

func TestSnapshotBuilderRebuildsAfterExpiry(t *testing.T) {
	weather := &countingWeather{report: WeatherReport{Condition: models.WeatherCloudy}}
	crowd := &countingCrowd{report: CrowdReport{Level: 0.5}}

	builder := NewSnapshotBuilder(weather, crowd, 10*time.Minute, zerolog.Nop())

	current := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	builder.now = func() time.Time { return current }

	if _, err := builder.Snapshot(context.Background(), "tokyo"); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	current = current.Add(11 * time.Minute)
	if _, err := builder.Snapshot(context.Background(), "tokyo"); err != nil {
		t.Fatalf("Snapshot() after expiry error = %v", err)
	}

	if weather.calls != 2 {
		t.Errorf("expired snapshot not rebuilt: %d weather calls", weather.calls)
	}
}

func TestSnapshotBuilderPartialFailure(t *testing.T) {
	weather := &countingWeather{err: errors.New("feed down")}
	crowd := &countingCrowd{report: CrowdReport{Level: 0.8, SpecialEvent: true}}

	builder := NewSnapshotBuilder(weather, crowd, 10*time.Minute, zerolog.Nop())

	snap, err := builder.Snapshot(context.Background(), "tokyo")
	if err != nil {
		t.Fatalf("Snapshot() error = %v, want degraded success", err)
	}
	if !snap.Degraded {
		t.Error("partial failure not marked degraded")
	}
	if snap.Weather != models.WeatherCloudy {
		t.Errorf("weather default = %s, want cloudy", snap.Weather)
	}
	if snap.CrowdLevel != 0.8 || !snap.SpecialEvent {
		t.Errorf("healthy crowd feed discarded: %+v", snap)
	}

	// Degraded snapshots are not cached; the next call retries the feed.
	if _, err := builder.Snapshot(context.Background(), "tokyo"); err != nil {
		t.Fatalf("Snapshot() retry error = %v", err)
	}
	if weather.calls != 2 {
		t.Errorf("degraded snapshot cached: weather called %d times, want 2", weather.calls)
	}
}

func TestSnapshotBuilderTotalFailure(t *testing.T) {
	weather := &countingWeather{err: errors.New("weather down")}
	crowd := &countingCrowd{err: errors.New("crowd down")}

	builder := NewSnapshotBuilder(weather, crowd, 10*time.Minute, zerolog.Nop())

	_, err := builder.Snapshot(context.Background(), "tokyo")
	if !errors.Is(err, recommend.ErrUpstreamTimeout) {
		t.Errorf("error = %v, want wrapped ErrUpstreamTimeout", err)
	}
}

func TestSnapshotBuilderInvalidate(t *testing.T) {
	weather := &countingWeather{report: WeatherReport{Condition: models.WeatherCloudy}}
	crowd := &countingCrowd{report: CrowdReport{Level: 0.5}}

	builder := NewSnapshotBuilder(weather, crowd, 10*time.Minute, zerolog.Nop())

	if _, err := builder.Snapshot(context.Background(), "tokyo"); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	builder.Invalidate("tokyo")
	if _, err := builder.Snapshot(context.Background(), "tokyo"); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if weather.calls != 2 {
		t.Errorf("Invalidate() did not drop the snapshot: %d calls", weather.calls)
	}
}
