// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first match
// wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/anabai/config.yaml",
	"/etc/anabai/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "ANABAI_CONFIG"

// envPrefix namespaces all configuration environment variables.
const envPrefix = "ANABAI_"

// defaultConfig returns the built-in defaults, applied before the
// config file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8420,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path:     "/data/catalog",
			SeedFile: "",
		},
		Feeds: FeedsConfig{
			Weather: FeedConfig{
				Enabled:           false,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 10,
				Burst:             5,
			},
			Crowd: FeedConfig{
				Enabled:           false,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 10,
				Burst:             5,
			},
			Model: FeedConfig{
				Enabled:           false,
				Timeout:           5 * time.Second,
				RequestsPerSecond: 20,
				Burst:             10,
			},
			SnapshotValidity: 10 * time.Minute,
		},
		Recommend: RecommendConfig{
			MaxCandidates: 500,
			DefaultTopN:   10,
			MaxTopN:       50,
			CacheTTL:      10 * time.Minute,
			ModelBlend:    0,
			LearningRate:  0.05,
			QueueSize:     1024,
			MaxPlaces:     8,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. ANABAI_* environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// ANABAI_SERVER_PORT -> server.port
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or empty
// string when running on defaults and environment alone.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps ANABAI_* environment variables onto config
// paths. Multi-word leaf keys need explicit entries because a plain
// underscore-to-dot rewrite would split them.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		"server_host":              "server.host",
		"server_port":              "server.port",
		"server_timeout":           "server.timeout",
		"server_shutdown_timeout":  "server.shutdown_timeout",
		"server_cors_origins":      "server.cors_origins",
		"server_rate_limit_reqs":   "server.rate_limit_reqs",
		"server_rate_limit_window": "server.rate_limit_window",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		"catalog_path":      "catalog.path",
		"catalog_seed_file": "catalog.seed_file",

		"weather_enabled": "feeds.weather.enabled",
		"weather_url":     "feeds.weather.url",
		"weather_api_key": "feeds.weather.api_key",
		"weather_timeout": "feeds.weather.timeout",
		"crowd_enabled":   "feeds.crowd.enabled",
		"crowd_url":       "feeds.crowd.url",
		"crowd_api_key":   "feeds.crowd.api_key",
		"crowd_timeout":   "feeds.crowd.timeout",
		"model_enabled":   "feeds.model.enabled",
		"model_url":       "feeds.model.url",
		"model_api_key":   "feeds.model.api_key",
		"model_timeout":   "feeds.model.timeout",

		"snapshot_validity": "feeds.snapshot_validity",

		"recommend_max_candidates": "recommend.max_candidates",
		"recommend_default_top_n":  "recommend.default_top_n",
		"recommend_max_top_n":      "recommend.max_top_n",
		"recommend_cache_ttl":      "recommend.cache_ttl",
		"recommend_model_blend":    "recommend.model_blend",
		"recommend_learning_rate":  "recommend.learning_rate",
		"recommend_queue_size":     "recommend.queue_size",
		"recommend_max_places":     "recommend.max_places",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated ANABAI_* variables do not
	// pollute the config tree.
	return ""
}

// sliceConfigPaths lists paths parsed as comma-separated slices when
// they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
