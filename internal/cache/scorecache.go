// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package cache

import (
	"sync"
	"time"

	"github.com/Smile2578/anabai-ml/internal/metrics"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// cleanupInterval is how often the background sweep removes expired
// score entries.
const cleanupInterval = 5 * time.Minute

type scoreEntry struct {
	entry     recommend.ScoreEntry
	expiresAt time.Time
}

// ScoreCache is a thread-safe in-memory TTL cache for score entries.
// It implements recommend.ScoreCache.
type ScoreCache struct {
	mu         sync.RWMutex
	entries    map[string]scoreEntry
	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once

	stats Stats
}

// Stats tracks cache performance counters.
type Stats struct {
	mu        sync.RWMutex
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewScoreCache creates a score cache with the given default TTL and
// starts the background expiry sweep. Call Close to stop the sweep.
func NewScoreCache(defaultTTL time.Duration) *ScoreCache {
	c := &ScoreCache{
		entries:    make(map[string]scoreEntry),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get implements recommend.ScoreCache. Expired entries are removed on
// access and counted as misses. The error return is always nil: an
// in-process cache has no backend to lose.
func (c *ScoreCache) Get(key string) (recommend.ScoreEntry, bool, error) {
	c.mu.RLock()
	cached, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return recommend.ScoreEntry{}, false, nil
	}

	if time.Now().After(cached.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		metrics.ScoreCacheEntries.Set(float64(len(c.entries)))
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return recommend.ScoreEntry{}, false, nil
	}

	c.recordHit()
	return cached.entry, true, nil
}

// Set implements recommend.ScoreCache. A non-positive TTL falls back to
// the cache default.
func (c *ScoreCache) Set(key string, entry recommend.ScoreEntry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = scoreEntry{
		entry:     entry,
		expiresAt: time.Now().Add(ttl),
	}
	metrics.ScoreCacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()
}

// Invalidate implements recommend.ScoreCache.
func (c *ScoreCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	metrics.ScoreCacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()
}

// Len returns the current entry count, including not-yet-swept expired
// entries.
func (c *ScoreCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweep. Safe to call more than once.
func (c *ScoreCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// GetStats returns a copy of the counter values.
func (c *ScoreCache) GetStats() (hits, misses, evictions int64) {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return c.stats.Hits, c.stats.Misses, c.stats.Evictions
}

func (c *ScoreCache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *ScoreCache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	for key, cached := range c.entries {
		if now.After(cached.expiresAt) {
			delete(c.entries, key)
			c.recordEviction()
		}
	}
	metrics.ScoreCacheEntries.Set(float64(len(c.entries)))
	c.mu.Unlock()
}

func (c *ScoreCache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	metrics.ScoreCacheHits.Inc()
}

func (c *ScoreCache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
	metrics.ScoreCacheMisses.Inc()
}

func (c *ScoreCache) recordEviction() {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()
}
