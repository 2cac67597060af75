// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/cache"
	"github.com/Smile2578/anabai-ml/internal/models"
)

// placeKeyPrefix namespaces place records in BadgerDB.
const placeKeyPrefix = "place:"

// gridCellSizeKm sizes the spatial index cells. Urban catalogs cluster
// tightly, so small cells keep proximity queries cheap.
const gridCellSizeKm = 2.0

// BadgerCatalog is a BadgerDB-backed catalog with an in-memory region
// index and spatial grid rebuilt at open. Durable writes, memory-speed
// reads.
type BadgerCatalog struct {
	db     *badger.DB
	logger zerolog.Logger

	mu       sync.RWMutex
	byID     map[string]models.Place
	byRegion map[string][]string
	grid     *cache.PlaceGrid
}

// OpenBadger opens (or creates) a catalog at the given path. An empty
// path opens an in-memory database, useful for tests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(path string, logger zerolog.Logger) (*BadgerCatalog, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	c := &BadgerCatalog{
		db:       db,
		logger:   logger.With().Str("component", "catalog").Logger(),
		byID:     make(map[string]models.Place),
		byRegion: make(map[string][]string),
		grid:     cache.NewPlaceGrid(gridCellSizeKm),
	}

	if err := c.loadIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}

	c.logger.Info().
		Int("places", len(c.byID)).
		Int("regions", len(c.byRegion)).
		Msg("Catalog opened")

	return c, nil
}

// loadIndex rebuilds the in-memory indexes from the durable store.
func (c *BadgerCatalog) loadIndex() error {
	return c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(placeKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var place models.Place
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &place)
			})
			if err != nil {
				return fmt.Errorf("decode place record: %w", err)
			}
			c.indexUnlocked(place)
		}
		return nil
	})
}

// Put implements Catalog.
func (c *BadgerCatalog) Put(_ context.Context, place models.Place) error {
	if place.ID == "" {
		return fmt.Errorf("place ID required")
	}
	place.Region = normalizeRegion(place.Region)

	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("marshal place: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(placeKeyPrefix+place.ID), data)
	})
	if err != nil {
		return fmt.Errorf("store place: %w", err)
	}

	c.mu.Lock()
	c.removeFromRegionUnlocked(place.ID)
	c.indexUnlocked(place)
	c.mu.Unlock()

	return nil
}

// Get implements Catalog.
func (c *BadgerCatalog) Get(_ context.Context, id string) (models.Place, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	place, ok := c.byID[id]
	if !ok {
		return models.Place{}, fmt.Errorf("place %q: %w", id, ErrPlaceNotFound)
	}
	return place, nil
}

// Delete implements Catalog.
func (c *BadgerCatalog) Delete(_ context.Context, id string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(placeKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}

	c.mu.Lock()
	c.removeFromRegionUnlocked(id)
	delete(c.byID, id)
	c.grid.Remove(id)
	c.mu.Unlock()

	return nil
}

// Candidates implements Catalog and recommend.CatalogProvider.
func (c *BadgerCatalog) Candidates(ctx context.Context, region string, categories []string, limit int) ([]models.Place, error) {
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
func (c *BadgerCatalog) Nearby(ctx context.Context, center models.Geolocation, radiusM float64) ([]models.Place, error) {
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
func (c *BadgerCatalog) Regions(_ context.Context) ([]string, error) {
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
func (c *BadgerCatalog) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID), nil
}

// Close closes the underlying database.
func (c *BadgerCatalog) Close() error {
	return c.db.Close()
}

// indexUnlocked adds a place to the in-memory indexes. Caller holds the
// write lock (or is single-threaded during loadIndex).
func (c *BadgerCatalog) indexUnlocked(place models.Place) {
	c.byID[place.ID] = place
	region := normalizeRegion(place.Region)
	c.byRegion[region] = append(c.byRegion[region], place.ID)
	c.grid.Insert(place)
}

// removeFromRegionUnlocked removes a place's region index entry, using
// its currently indexed region in case the region changed.
func (c *BadgerCatalog) removeFromRegionUnlocked(id string) {
	old, ok := c.byID[id]
	if !ok {
		return
	}

	region := normalizeRegion(old.Region)
	ids := c.byRegion[region]
	for i, existing := range ids {
		if existing == id {
			c.byRegion[region] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(c.byRegion[region]) == 0 {
		delete(c.byRegion, region)
	}
}
