// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package cache

import (
	"sync"
	"time"
)

// dedupEntry represents an entry in the dedup cache.
type dedupEntry struct {
	key       string
	seenAt    time.Time
	prev      *dedupEntry
	next      *dedupEntry
	expiresAt time.Time
}

// DedupCache is a thread-safe bounded LRU used to drop repeated
// feedback submissions inside a short window. A user tapping "accept"
// twice should move the weights once.
//
// All operations are O(1): a doubly-linked list tracks recency and a
// map provides lookups. Expired entries are removed lazily on access.
type DedupCache struct {
	mu sync.RWMutex

	capacity int
	ttl      time.Duration

	items map[string]*dedupEntry

	// head.next is the most recently seen, tail.prev the least
	head *dedupEntry
	tail *dedupEntry

	hits   int64
	misses int64
}

// NewDedupCache creates a dedup cache with the given capacity and
// window.
func NewDedupCache(capacity int, ttl time.Duration) *DedupCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &DedupCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*dedupEntry, capacity),
		head:     &dedupEntry{},
		tail:     &dedupEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Seen reports whether the key was recorded inside the window, and
// records it if not. A true result means the caller should drop the
// event as a duplicate.
func (c *DedupCache) Seen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	if entry, exists := c.items[key]; exists {
		if !now.After(entry.expiresAt) {
			c.moveToFront(entry)
			c.hits++
			return true
		}
		c.removeEntry(entry)
	}

	entry := &dedupEntry{
		key:       key,
		seenAt:    now,
		expiresAt: now.Add(c.ttl),
	}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}

	c.misses++
	return false
}

// Contains checks membership without recording or touching recency.
func (c *DedupCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if entry, exists := c.items[key]; exists {
		return !time.Now().After(entry.expiresAt)
	}
	return false
}

// Forget removes a key. Returns true if it was present.
func (c *DedupCache) Forget(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.removeEntry(entry)
		return true
	}
	return false
}

// Len returns the current number of entries.
func (c *DedupCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns hit/miss counters and current size.
func (c *DedupCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *DedupCache) addToFront(entry *dedupEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *DedupCache) moveToFront(entry *dedupEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *DedupCache) removeEntry(entry *dedupEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

func (c *DedupCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
}
