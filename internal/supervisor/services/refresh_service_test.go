// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
)

type stubSource struct {
	mu      sync.Mutex
	calls   map[string]int
	failFor string
}

func newStubSource() *stubSource {
	return &stubSource{calls: make(map[string]int)}
}

func (s *stubSource) Snapshot(_ context.Context, region string) (models.ContextSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[region]++
	if region == s.failFor {
		return models.ContextSnapshot{}, errors.New("feed down")
	}
	return models.ContextSnapshot{Region: region, AsOf: time.Now()}, nil
}

func (s *stubSource) count(region string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[region]
}

type stubRegions struct {
	regions []string
	err     error
}

func (s stubRegions) Regions(_ context.Context) ([]string, error) {
	return s.regions, s.err
}

func TestSnapshotRefreshServicePrewarmsOnStartup(t *testing.T) {
	source := newStubSource()
	svc := NewSnapshotRefreshService(source, stubRegions{regions: []string{"tokyo", "kyoto"}},
		SnapshotRefreshConfig{Interval: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if source.count("tokyo") > 0 && source.count("kyoto") > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done

	if source.count("tokyo") == 0 || source.count("kyoto") == 0 {
		t.Errorf("startup prewarm missed regions: tokyo=%d kyoto=%d",
			source.count("tokyo"), source.count("kyoto"))
	}
}

func TestSnapshotRefreshServiceRefreshesOnTick(t *testing.T) {
	source := newStubSource()
	svc := NewSnapshotRefreshService(source, stubRegions{regions: []string{"tokyo"}},
		SnapshotRefreshConfig{Interval: 20 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && source.count("tokyo") < 3 {
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-done

	if source.count("tokyo") < 3 {
		t.Errorf("refresh count = %d, want >= 3", source.count("tokyo"))
	}
}

func TestSnapshotRefreshServiceContinuesPastFailures(t *testing.T) {
	source := newStubSource()
	source.failFor = "tokyo"
	svc := NewSnapshotRefreshService(source, stubRegions{regions: []string{"tokyo", "kyoto"}},
		SnapshotRefreshConfig{Interval: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && source.count("kyoto") == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done

	// A failing region must not block the ones after it.
	if source.count("kyoto") == 0 {
		t.Error("failure in one region blocked the rest of the cycle")
	}
}

func TestSnapshotRefreshServiceDefaults(t *testing.T) {
	svc := NewSnapshotRefreshService(newStubSource(), stubRegions{}, SnapshotRefreshConfig{}, zerolog.Nop())
	if svc.config.Interval != 5*time.Minute {
		t.Errorf("Interval = %v, want default 5m", svc.config.Interval)
	}
	if svc.config.RegionBudget != 10*time.Second {
		t.Errorf("RegionBudget = %v, want default 10s", svc.config.RegionBudget)
	}
	if svc.String() != "snapshot-refresh" {
		t.Errorf("String() = %q, want snapshot-refresh", svc.String())
	}
}
