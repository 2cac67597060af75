// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Smile2578/anabai-ml/internal/cache"
	"github.com/Smile2578/anabai-ml/internal/models"
)

// MemoryCatalog is an in-memory Catalog for tests and ephemeral
// deployments. Same semantics as BadgerCatalog, minus persistence.
type MemoryCatalog struct {
	mu       sync.RWMutex
	byID     map[string]models.Place
	byRegion map[string][]string
	grid     *cache.PlaceGrid
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *MemoryCatalog {
	return &MemoryCatalog{
		byID:     make(map[string]models.Place),
		byRegion: make(map[string][]string),
		grid:     cache.NewPlaceGrid(gridCellSizeKm),
	}
}

// Put implements Catalog.
func (c *MemoryCatalog) Put(_ context.Context, place models.Place) error {
	if place.ID == "" {
		return fmt.Errorf("place ID required")
	}
	place.Region = normalizeRegion(place.Region)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeFromRegionUnlocked(place.ID)
	c.byID[place.ID] = place
	c.byRegion[place.Region] = append(c.byRegion[place.Region], place.ID)
	c.grid.Insert(place)
	return nil
}

// Get implements Catalog.
func (c *MemoryCatalog) Get(_ context.Context, id string) (models.Place, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	place, ok := c.byID[id]
	if !ok {
		return models.Place{}, fmt.Errorf("place %q: %w", id, ErrPlaceNotFound)
	}
	return place, nil
}

// Delete implements Catalog.
func (c *MemoryCatalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeFromRegionUnlocked(id)
	delete(c.byID, id)
	c.grid.Remove(id)
	return nil
}

// Candidates implements Catalog and recommend.CatalogProvider.
func (c *MemoryCatalog) Candidates(ctx context.Context, region string, categories []string, limit int) ([]models.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	var ids []string
	if region == "" {
		ids = make([]string, 0, len(c.byID))
		for id := range c.byID {
			ids = append(ids, id)
		}
	} else {
		ids = c.byRegion[normalizeRegion(region)]
	}

	places := make([]models.Place, 0, len(ids))
	for _, id := range ids {
		if place, ok := c.byID[id]; ok {
			places = append(places, place)
		}
	}
	c.mu.RUnlock()

	orderCandidates(places, categories)
	if limit > 0 && limit < len(places) {
		places = places[:limit]
	}
	return places, nil
}

// Nearby implements Catalog.
func (c *MemoryCatalog) Nearby(ctx context.Context, center models.Geolocation, radiusM float64) ([]models.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	places := c.grid.QueryNearby(center, radiusM)
	c.mu.RUnlock()

	sort.Slice(places, func(i, j int) bool { return places[i].ID < places[j].ID })
	return places, nil
}

// Regions implements Catalog.
func (c *MemoryCatalog) Regions(_ context.Context) ([]string, error) {
	c.mu.RLock()
	regions := make([]string, 0, len(c.byRegion))
	for region := range c.byRegion {
		regions = append(regions, region)
	}
	c.mu.RUnlock()

	sort.Strings(regions)
	return regions, nil
}

// Count implements Catalog.
func (c *MemoryCatalog) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID), nil
}

func (c *MemoryCatalog) removeFromRegionUnlocked(id string) {
	old, ok := c.byID[id]
	if !ok {
		return
	}

	ids := c.byRegion[old.Region]
	for i, existing := range ids {
		if existing == id {
			c.byRegion[old.Region] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(c.byRegion[old.Region]) == 0 {
		delete(c.byRegion, old.Region)
	}
}
