// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package cache

import (
	"math"
	"sync"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// PlaceGrid divides geographic space into cells for fast proximity
// queries over catalog places. Instead of O(n) comparisons to find
// nearby places, only cells near the query point are checked, reducing
// to O(k) where k is the number of nearby entries.
//
// Time complexity:
//   - Insert: O(1)
//   - Query nearby: O(k) vs O(n) for a linear scan
//   - Remove: O(1)
type PlaceGrid struct {
	mu       sync.RWMutex
	cells    map[cellKey]*gridCell
	cellSize float64 // cell size in degrees
	entries  map[string]*gridEntry
}

type cellKey struct {
	X, Y int
}

type gridCell struct {
	entries []*gridEntry
}

type gridEntry struct {
	place models.Place
	cell  cellKey
}

// NewPlaceGrid creates a grid with the given approximate cell size in
// kilometers. Smaller cells are more precise but mean more cells to
// check per query. A few kilometers suits dense urban catalogs.
func NewPlaceGrid(cellSizeKm float64) *PlaceGrid {
	if cellSizeKm <= 0 {
		cellSizeKm = 2
	}

	// 1 degree of latitude is roughly 111km
	return &PlaceGrid{
		cells:    make(map[cellKey]*gridCell),
		cellSize: cellSizeKm / 111.0,
		entries:  make(map[string]*gridEntry),
	}
}

func (g *PlaceGrid) keyFor(loc models.Geolocation) cellKey {
	lon := loc.Lon
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}

	return cellKey{
		X: int(math.Floor(lon / g.cellSize)),
		Y: int(math.Floor(loc.Lat / g.cellSize)),
	}
}

// Insert adds a place to the grid, replacing any existing entry with
// the same ID.
func (g *PlaceGrid) Insert(place models.Place) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.entries[place.ID]; ok {
		g.removeFromCellUnlocked(existing, place.ID)
	}

	key := g.keyFor(place.Location)
	entry := &gridEntry{place: place, cell: key}

	cell, exists := g.cells[key]
	if !exists {
		cell = &gridCell{entries: make([]*gridEntry, 0, 4)}
		g.cells[key] = cell
	}
	cell.entries = append(cell.entries, entry)
	g.entries[place.ID] = entry
}

// Remove removes a place by ID.
func (g *PlaceGrid) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.entries[id]
	if !exists {
		return false
	}

	g.removeFromCellUnlocked(entry, id)
	delete(g.entries, id)
	return true
}

func (g *PlaceGrid) removeFromCellUnlocked(entry *gridEntry, id string) {
	cell, exists := g.cells[entry.cell]
	if !exists {
		return
	}

	for i, e := range cell.entries {
		if e.place.ID == id {
			// Swap with last and truncate
			cell.entries[i] = cell.entries[len(cell.entries)-1]
			cell.entries = cell.entries[:len(cell.entries)-1]
			break
		}
	}

	if len(cell.entries) == 0 {
		delete(g.cells, entry.cell)
	}
}

// Get returns a place by ID.
func (g *PlaceGrid) Get(id string) (models.Place, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	entry, exists := g.entries[id]
	if !exists {
		return models.Place{}, false
	}
	return entry.place, true
}

// QueryNearby returns all places within radiusM meters of the point.
func (g *PlaceGrid) QueryNearby(center models.Geolocation, radiusM float64) []models.Place {
	g.mu.RLock()
	defer g.mu.RUnlock()

	radiusKm := radiusM / 1000.0
	cellsToCheck := int(math.Ceil(radiusKm/111.0/g.cellSize)) + 1
	centerCell := g.keyFor(center)

	var results []models.Place
	for dx := -cellsToCheck; dx <= cellsToCheck; dx++ {
		for dy := -cellsToCheck; dy <= cellsToCheck; dy++ {
			cell, exists := g.cells[cellKey{X: centerCell.X + dx, Y: centerCell.Y + dy}]
			if !exists {
				continue
			}

			for _, entry := range cell.entries {
				if haversineKm(center, entry.place.Location) <= radiusKm {
					results = append(results, entry.place)
				}
			}
		}
	}

	return results
}

// Size returns the total number of places in the grid.
func (g *PlaceGrid) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// NumCells returns the number of non-empty cells.
func (g *PlaceGrid) NumCells() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Clear removes all places.
func (g *PlaceGrid) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cells = make(map[cellKey]*gridCell)
	g.entries = make(map[string]*gridEntry)
}

// haversineKm returns the spherical distance between two points in km.
func haversineKm(a, b models.Geolocation) float64 {
	const earthRadiusKm = 6371.0

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
