// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Feeds     FeedsConfig     `koanf:"feeds"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to every entry.
	Caller bool `koanf:"caller"`
}

// CatalogConfig holds place catalog storage settings.
type CatalogConfig struct {
	// Path is the badger database directory. Empty runs in-memory,
	// which is intended for tests and ephemeral deployments.
	Path string `koanf:"path"`

	// SeedFile optionally points at a JSON file of places to load on
	// startup.
	SeedFile string `koanf:"seed_file"`
}

// FeedConfig holds connection settings for one external feed.
type FeedConfig struct {
	Enabled           bool          `koanf:"enabled"`
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// FeedsConfig holds the external context feed settings.
type FeedsConfig struct {
	Weather FeedConfig `koanf:"weather"`
	Crowd   FeedConfig `koanf:"crowd"`
	Model   FeedConfig `koanf:"model"`

	// SnapshotValidity is how long a built context snapshot is reused
	// per region.
	SnapshotValidity time.Duration `koanf:"snapshot_validity"`
}

// RecommendConfig holds the engine knobs exposed through application
// configuration. Anything not listed here keeps its engine default.
type RecommendConfig struct {
	MaxCandidates int           `koanf:"max_candidates"`
	DefaultTopN   int           `koanf:"default_top_n"`
	MaxTopN       int           `koanf:"max_top_n"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	ModelBlend    float64       `koanf:"model_blend"`
	LearningRate  float64       `koanf:"learning_rate"`
	QueueSize     int           `koanf:"queue_size"`
	MaxPlaces     int           `koanf:"max_places"`
}

// Validate checks the configuration for values that would prevent the
// service from starting correctly.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not one of trace, debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q not one of json, console", c.Logging.Format)
	}

	for name, feed := range map[string]FeedConfig{
		"feeds.weather": c.Feeds.Weather,
		"feeds.crowd":   c.Feeds.Crowd,
		"feeds.model":   c.Feeds.Model,
	} {
		if feed.Enabled && feed.URL == "" {
			return fmt.Errorf("%s.url required when the feed is enabled", name)
		}
	}
	if c.Feeds.SnapshotValidity <= 0 {
		return fmt.Errorf("feeds.snapshot_validity must be positive")
	}

	if c.Recommend.MaxCandidates <= 0 {
		return fmt.Errorf("recommend.max_candidates must be positive")
	}
	if c.Recommend.DefaultTopN <= 0 || c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("recommend top-n bounds inconsistent: default %d, max %d",
			c.Recommend.DefaultTopN, c.Recommend.MaxTopN)
	}
	if c.Recommend.ModelBlend < 0 || c.Recommend.ModelBlend > 1 {
		return fmt.Errorf("recommend.model_blend %v out of range [0, 1]", c.Recommend.ModelBlend)
	}

	return nil
}
