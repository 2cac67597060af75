// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Smile2578/anabai-ml/internal/metrics"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

func testEntry(score float64) recommend.ScoreEntry {
	return recommend.ScoreEntry{
		BaseScore:       score,
		ContextualScore: score,
		CombinedScore:   score,
	}
}

func TestScoreCacheRoundTrip(t *testing.T) {
	c := NewScoreCache(time.Minute)
	defer c.Close()

	c.Set("k1", testEntry(0.8), 0)

	got, ok, err := c.Get("k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() miss for freshly stored key")
	}
	if got.CombinedScore != 0.8 {
		t.Errorf("CombinedScore = %f, want 0.8", got.CombinedScore)
	}

	_, ok, err = c.Get("missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit for absent key")
	}
}

func TestScoreCacheExpiry(t *testing.T) {
	c := NewScoreCache(time.Minute)
	defer c.Close()

	c.Set("k1", testEntry(0.5), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok, _ := c.Get("k1"); ok {
		t.Error("entry survived past its TTL")
	}

	_, _, evictions := c.GetStats()
	if evictions != 1 {
		t.Errorf("evictions = %d, want 1", evictions)
	}
}

func TestScoreCacheInvalidate(t *testing.T) {
	c := NewScoreCache(time.Minute)
	defer c.Close()

	c.Set("k1", testEntry(0.5), 0)
	c.Set("k2", testEntry(0.6), 0)
	c.Invalidate("k1")

	if _, ok, _ := c.Get("k1"); ok {
		t.Error("entry survived invalidation")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after invalidation, want 1", c.Len())
	}
}

func TestScoreCacheMetrics(t *testing.T) {
	c := NewScoreCache(time.Minute)
	defer c.Close()

	hitsBefore := testutil.ToFloat64(metrics.ScoreCacheHits)
	missesBefore := testutil.ToFloat64(metrics.ScoreCacheMisses)

	c.Set("k1", testEntry(0.5), 0)
	c.Get("k1")
	c.Get("missing")

	if got := testutil.ToFloat64(metrics.ScoreCacheHits); got != hitsBefore+1 {
		t.Errorf("ScoreCacheHits = %f, want %f", got, hitsBefore+1)
	}
	if got := testutil.ToFloat64(metrics.ScoreCacheMisses); got != missesBefore+1 {
		t.Errorf("ScoreCacheMisses = %f, want %f", got, missesBefore+1)
	}
	if got := testutil.ToFloat64(metrics.ScoreCacheEntries); got != 1 {
		t.Errorf("ScoreCacheEntries = %f, want 1", got)
	}
}

func TestScoreCacheConcurrent(t *testing.T) {
	c := NewScoreCache(time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d-%d", n, j)
				c.Set(key, testEntry(0.5), 0)
				c.Get(key)
				if j%10 == 0 {
					c.Invalidate(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
