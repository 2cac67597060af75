// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package main is the entry point for the AnabAI recommendation server.
//
// AnabAI scores a catalog of travel places against per-user preferences
// and live context (weather, crowd levels, events), assembles feasible
// multi-stop itineraries, and adapts its scoring weights online from
// user feedback.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Catalog: Open the BadgerDB place store and optionally load a seed file
//  3. Scoring: Base and contextual scorers, constraint filter, assembler, ranker
//  4. Feeds: Weather, crowd, and model clients (each optional, with static fallbacks)
//  5. Engine: Recommendation engine with score cache and weight store
//  6. Feedback: Online learning loop applying feedback events to weights
//  7. HTTP Server: REST API under /api/v1 plus Prometheus /metrics
//
// All long-running components run under a suture supervisor tree and are
// restarted with backoff on failure.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (ANABAI_ prefix, e.g. ANABAI_SERVER_PORT)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Feeds
//
// Each upstream feed is disabled by default and the engine degrades to
// static context when one is missing:
//   - Weather: ANABAI_FEEDS_WEATHER_ENABLED=true, ANABAI_FEEDS_WEATHER_URL
//   - Crowd: ANABAI_FEEDS_CROWD_ENABLED=true, ANABAI_FEEDS_CROWD_URL
//   - Model: ANABAI_FEEDS_MODEL_ENABLED=true, ANABAI_FEEDS_MODEL_URL
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (shutdown timeout)
//   - Flushes pending feedback events and closes the catalog
//
// # Example Usage
//
// Development with a seed catalog and no upstream feeds:
//
//	export ANABAI_CATALOG_PATH=./data/catalog
//	export ANABAI_CATALOG_SEED_FILE=./data/places.json
//	./anabai
//
// Production with live feeds:
//
//	export ANABAI_FEEDS_WEATHER_ENABLED=true
//	export ANABAI_FEEDS_WEATHER_URL=https://weather.internal
//	export ANABAI_FEEDS_WEATHER_API_KEY=your-key
//	export ANABAI_FEEDS_CROWD_ENABLED=true
//	export ANABAI_FEEDS_CROWD_URL=https://crowd.internal
//	./anabai
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Smile2578/anabai-ml/internal/api"
	"github.com/Smile2578/anabai-ml/internal/cache"
	"github.com/Smile2578/anabai-ml/internal/catalog"
	"github.com/Smile2578/anabai-ml/internal/config"
	"github.com/Smile2578/anabai-ml/internal/feeds"
	"github.com/Smile2578/anabai-ml/internal/logging"
	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
	"github.com/Smile2578/anabai-ml/internal/recommend/itinerary"
	"github.com/Smile2578/anabai-ml/internal/recommend/scoring"
	"github.com/Smile2578/anabai-ml/internal/supervisor"
	"github.com/Smile2578/anabai-ml/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting AnabAI recommendation server")
	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Bool("weather_feed", cfg.Feeds.Weather.Enabled).
		Bool("crowd_feed", cfg.Feeds.Crowd.Enabled).
		Bool("model_feed", cfg.Feeds.Model.Enabled).
		Msg("Configuration loaded")

	logger := logging.Logger()

	// Open the place catalog
	cat, err := catalog.OpenBadger(cfg.Catalog.Path, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer func() {
		if err := cat.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	if cfg.Catalog.SeedFile != "" {
		loaded, err := catalog.LoadSeed(context.Background(), cat, cfg.Catalog.SeedFile)
		if err != nil {
			logging.Fatal().Err(err).Str("seed_file", cfg.Catalog.SeedFile).Msg("Failed to load catalog seed")
		}
		logging.Info().Int("places", loaded).Str("seed_file", cfg.Catalog.SeedFile).Msg("Catalog seed loaded")
	}

	// Merge application config onto the engine defaults
	engineCfg := buildEngineConfig(cfg)

	weights := recommend.NewWeightStore(engineCfg.Weights)

	scoreCache := cache.NewScoreCache(engineCfg.Cache.TTL)
	defer scoreCache.Close()

	// Context feeds: live clients when enabled, static fallbacks otherwise
	weather, crowd := buildFeedProviders(cfg)
	builder := feeds.NewSnapshotBuilder(weather, crowd, cfg.Feeds.SnapshotValidity, logger)

	var model recommend.ModelScorer
	if cfg.Feeds.Model.Enabled {
		model = feeds.NewModelClient(feedClientConfig(cfg.Feeds.Model), logger)
		logging.Info().Str("url", cfg.Feeds.Model.URL).Msg("Model feed enabled")
	}

	deps := recommend.EngineDeps{
		Catalog:    cat,
		Snapshots:  builder,
		Cache:      scoreCache,
		Weights:    weights,
		Base:       scoring.NewBaseScorer(engineCfg.Scoring),
		Contextual: scoring.NewContextualScorer(engineCfg.Scoring),
		Filter:     itinerary.NewFilter(engineCfg.Assembly),
		Assembler:  itinerary.NewAssembler(engineCfg.Assembly),
		Ranker:     itinerary.NewRanker(),
		Model:      model,
	}
	if !engineCfg.Cache.Enabled {
		deps.Cache = nil
	}

	engine, err := recommend.NewEngine(engineCfg, deps, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	logging.Info().Msg("Recommendation engine initialized")

	feedbackLoop := recommend.NewFeedbackLoop(engineCfg.Feedback, weights, logger)

	handler := api.NewHandler(engine, feedbackLoop, cat, logger)
	router := api.NewRouter(cfg.Server, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Context layer: keep region snapshots warm so request paths rarely
	// hit upstream feeds synchronously. Refresh at half the validity
	// window so a warm snapshot is always available.
	tree.AddContextService(services.NewSnapshotRefreshService(builder, cat, services.SnapshotRefreshConfig{
		Interval: cfg.Feeds.SnapshotValidity / 2,
	}, logger))

	// Learning layer
	tree.AddLearningService(feedbackLoop)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor finishes
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildEngineConfig overlays the application-level recommendation
// settings onto the engine defaults. Zero values keep the default.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()

	if cfg.Recommend.MaxCandidates > 0 {
		ec.Limits.MaxCandidates = cfg.Recommend.MaxCandidates
	}
	if cfg.Recommend.DefaultTopN > 0 {
		ec.Limits.DefaultTopN = cfg.Recommend.DefaultTopN
	}
	if cfg.Recommend.MaxTopN > 0 {
		ec.Limits.MaxTopN = cfg.Recommend.MaxTopN
	}
	if cfg.Recommend.CacheTTL > 0 {
		ec.Cache.TTL = cfg.Recommend.CacheTTL
	}
	if cfg.Recommend.ModelBlend > 0 {
		ec.Scoring.ModelBlend = cfg.Recommend.ModelBlend
	}
	if cfg.Recommend.LearningRate > 0 {
		ec.Feedback.LearningRate = cfg.Recommend.LearningRate
	}
	if cfg.Recommend.QueueSize > 0 {
		ec.Feedback.QueueSize = cfg.Recommend.QueueSize
	}
	if cfg.Recommend.MaxPlaces > 0 {
		ec.Assembly.MaxPlaces = cfg.Recommend.MaxPlaces
	}
	if cfg.Feeds.SnapshotValidity > 0 {
		ec.Cache.SnapshotValidity = cfg.Feeds.SnapshotValidity
	}

	return ec
}

// buildFeedProviders returns the weather and crowd providers, preferring
// live HTTP clients when a feed is enabled and falling back to neutral
// static reports otherwise.
func buildFeedProviders(cfg *config.Config) (feeds.WeatherProvider, feeds.CrowdProvider) {
	logger := logging.Logger()

	var weather feeds.WeatherProvider
	if cfg.Feeds.Weather.Enabled {
		weather = feeds.NewWeatherClient(feedClientConfig(cfg.Feeds.Weather), logger)
		logging.Info().Str("url", cfg.Feeds.Weather.URL).Msg("Weather feed enabled")
	} else {
		weather = feeds.StaticWeather{Report: feeds.WeatherReport{Condition: models.WeatherCloudy, Temperature: 18}}
		logging.Info().Msg("Weather feed disabled, using static fallback")
	}

	var crowd feeds.CrowdProvider
	if cfg.Feeds.Crowd.Enabled {
		crowd = feeds.NewCrowdClient(feedClientConfig(cfg.Feeds.Crowd), logger)
		logging.Info().Str("url", cfg.Feeds.Crowd.URL).Msg("Crowd feed enabled")
	} else {
		crowd = feeds.StaticCrowd{Report: feeds.CrowdReport{Level: 0.5}}
		logging.Info().Msg("Crowd feed disabled, using static fallback")
	}

	return weather, crowd
}

func feedClientConfig(fc config.FeedConfig) feeds.ClientConfig {
	return feeds.ClientConfig{
		BaseURL:           fc.URL,
		APIKey:            fc.APIKey,
		Timeout:           fc.Timeout,
		RequestsPerSecond: fc.RequestsPerSecond,
		Burst:             fc.Burst,
	}
}
