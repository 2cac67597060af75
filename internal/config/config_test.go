// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"enabled feed without url", func(c *Config) { c.Feeds.Weather.Enabled = true }, true},
		{"enabled feed with url", func(c *Config) {
			c.Feeds.Weather.Enabled = true
			c.Feeds.Weather.URL = "http://weather.local"
		}, false},
		{"zero snapshot validity", func(c *Config) { c.Feeds.SnapshotValidity = 0 }, true},
		{"zero candidates", func(c *Config) { c.Recommend.MaxCandidates = 0 }, true},
		{"max topn below default", func(c *Config) { c.Recommend.MaxTopN = 5 }, true},
		{"model blend above one", func(c *Config) { c.Recommend.ModelBlend = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9000
logging:
  level: debug
feeds:
  weather:
    enabled: true
    url: http://weather.local
recommend:
  max_candidates: 250
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %s, want debug from file", cfg.Logging.Level)
	}
	if !cfg.Feeds.Weather.Enabled || cfg.Feeds.Weather.URL != "http://weather.local" {
		t.Errorf("weather feed not loaded: %+v", cfg.Feeds.Weather)
	}
	if cfg.Recommend.MaxCandidates != 250 {
		t.Errorf("recommend.max_candidates = %d, want 250 from file", cfg.Recommend.MaxCandidates)
	}

	// Untouched values keep defaults.
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("server.timeout = %v, want default 30s", cfg.Server.Timeout)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ANABAI_SERVER_PORT", "9100")
	t.Setenv("ANABAI_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("server.port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %s, want env override warn", cfg.Logging.Level)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ANABAI_SERVER_CORS_ORIGINS", "https://app.anab.ai, https://staging.anab.ai")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"https://app.anab.ai", "https://staging.anab.ai"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("cors_origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("cors_origins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("logging:\n  level: shouty\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Error("Load() accepted invalid logging level")
	}
}
