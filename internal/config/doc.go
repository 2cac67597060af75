// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package config loads application configuration with koanf v2 from
// three layered sources, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. Optional YAML config file (ANABAI_CONFIG or the default paths)
//  3. ANABAI_* environment variables
//
// The engine's scoring parameters live in the recommend package; this
// package only exposes the operational knobs that deployments commonly
// tune (candidate limits, cache TTL, feed endpoints).
package config
