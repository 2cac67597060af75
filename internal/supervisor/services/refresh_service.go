// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package services provides suture service wrappers for the long-running
// application components.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// SnapshotSource builds a context snapshot for one region. Satisfied by
// feeds.SnapshotBuilder.
type SnapshotSource interface {
	Snapshot(ctx context.Context, region string) (models.ContextSnapshot, error)
}

// RegionLister enumerates the regions worth prewarming. Satisfied by the
// catalog.
type RegionLister interface {
	Regions(ctx context.Context) ([]string, error)
}

// SnapshotRefreshConfig holds configuration for the refresh service.
type SnapshotRefreshConfig struct {
	// Interval is how often snapshots are rebuilt. Keep it below the
	// snapshot validity window so requests always find a warm snapshot.
	// Default: 5m.
	Interval time.Duration

	// RegionBudget is the per-region build budget.
	// Default: 10s.
	RegionBudget time.Duration
}

// SnapshotRefreshService prewarms context snapshots for every catalog
// region on a timer, so request latency never includes a cold feed
// round-trip. Failures are logged and retried on the next tick; the
// engine's degraded fallback covers the gap.
type SnapshotRefreshService struct {
	source  SnapshotSource
	regions RegionLister
	config  SnapshotRefreshConfig
	logger  zerolog.Logger
	name    string
}

// NewSnapshotRefreshService creates a snapshot refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotRefreshService(source SnapshotSource, regions RegionLister, cfg SnapshotRefreshConfig, logger zerolog.Logger) *SnapshotRefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.RegionBudget <= 0 {
		cfg.RegionBudget = 10 * time.Second
	}
	return &SnapshotRefreshService{
		source:  source,
		regions: regions,
		config:  cfg,
		logger:  logger.With().Str("service", "snapshot_refresh").Logger(),
		name:    "snapshot-refresh",
	}
}

// Serve implements suture.Service. It prewarms once on startup, then on
// every tick until the context is canceled.
func (s *SnapshotRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Msg("snapshot refresh service starting")

	s.refreshAll(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

// refreshAll rebuilds the snapshot for every known region.
func (s *SnapshotRefreshService) refreshAll(ctx context.Context) {
	regions, err := s.regions.Regions(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("listing regions failed, skipping refresh cycle")
		return
	}

	start := time.Now()
	warmed := 0
	for _, region := range regions {
		if ctx.Err() != nil {
			return
		}
		if err := s.refreshRegion(ctx, region); err != nil {
			s.logger.Warn().Err(err).
				Str("region", region).
				Msg("snapshot refresh failed")
			continue
		}
		warmed++
	}

	s.logger.Debug().
		Int("regions", len(regions)).
		Int("warmed", warmed).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot refresh cycle complete")
}

func (s *SnapshotRefreshService) refreshRegion(ctx context.Context, region string) error {
	regionCtx, cancel := context.WithTimeout(ctx, s.config.RegionBudget)
	defer cancel()

	_, err := s.source.Snapshot(regionCtx, region)
	return err
}

// String returns the service name for logging.
func (s *SnapshotRefreshService) String() string {
	return s.name
}
