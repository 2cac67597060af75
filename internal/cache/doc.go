// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

/*
Package cache provides the in-memory caches used by the recommendation
pipeline.

# Overview

Three structures live here:

  - ScoreCache: a thread-safe TTL cache memoizing per-place score
    entries, keyed by (place, preferences hash, context hash, weights
    version). Implements recommend.ScoreCache.
  - PlaceGrid: a spatial hash grid over catalog places for O(k)
    proximity queries, used by the catalog for radius lookups.
  - DedupCache: a bounded LRU used to drop repeated feedback
    submissions inside a short window.

# Invalidation

Score entries expire by TTL (matched to the context snapshot validity
window) and are additionally outdated by construction whenever the
weights version changes, because the version is part of the key. A
background sweep removes expired entries so memory tracks the working
set rather than history.

# Thread Safety

All structures are safe for concurrent use. ScoreCache uses an RWMutex;
reads take the read lock, expiry deletion upgrades to the write lock.

Run tests with the race detector:

	go test -race ./internal/cache
*/
package cache
