// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package cache

import (
	"testing"
	"time"
)

func TestDedupCacheSeen(t *testing.T) {
	c := NewDedupCache(100, time.Minute)

	if c.Seen("evt-1") {
		t.Error("first sighting reported as duplicate")
	}
	if !c.Seen("evt-1") {
		t.Error("second sighting not reported as duplicate")
	}
	if c.Seen("evt-2") {
		t.Error("different key reported as duplicate")
	}
}

func TestDedupCacheWindowExpiry(t *testing.T) {
	c := NewDedupCache(100, 10*time.Millisecond)

	c.Seen("evt-1")
	time.Sleep(30 * time.Millisecond)

	if c.Seen("evt-1") {
		t.Error("expired key still reported as duplicate")
	}
}

func TestDedupCacheCapacityEviction(t *testing.T) {
	c := NewDedupCache(2, time.Minute)

	c.Seen("a")
	c.Seen("b")
	c.Seen("c") // evicts a, the least recently seen

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Contains("a") {
		t.Error("oldest key survived capacity eviction")
	}
	if !c.Contains("b") || !c.Contains("c") {
		t.Error("recent keys missing after eviction")
	}
}

func TestDedupCacheRecencyOrder(t *testing.T) {
	c := NewDedupCache(2, time.Minute)

	c.Seen("a")
	c.Seen("b")
	c.Seen("a") // touch a so b becomes the eviction candidate
	c.Seen("c")

	if c.Contains("b") {
		t.Error("least recently seen key survived eviction")
	}
	if !c.Contains("a") {
		t.Error("recently touched key was evicted")
	}
}

func TestDedupCacheForget(t *testing.T) {
	c := NewDedupCache(100, time.Minute)

	c.Seen("evt-1")
	if !c.Forget("evt-1") {
		t.Error("Forget() = false for present key")
	}
	if c.Seen("evt-1") {
		t.Error("forgotten key still reported as duplicate")
	}
}
