// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// ErrPlaceNotFound indicates the requested place is not in the catalog.
var ErrPlaceNotFound = errors.New("place not found")

// Catalog is the read/write place store. The request path uses only the
// read side (recommend.CatalogProvider is a subset of this interface).
type Catalog interface {
	// Candidates returns up to limit places for a region, places matching
	// any of the given categories first.
	Candidates(ctx context.Context, region string, categories []string, limit int) ([]models.Place, error)

	// Get returns a place by ID.
	Get(ctx context.Context, id string) (models.Place, error)

	// Nearby returns places within radiusM meters of a point.
	Nearby(ctx context.Context, center models.Geolocation, radiusM float64) ([]models.Place, error)

	// Put inserts or replaces a place.
	Put(ctx context.Context, place models.Place) error

	// Delete removes a place by ID.
	Delete(ctx context.Context, id string) error

	// Regions returns the known region keys, sorted.
	Regions(ctx context.Context) ([]string, error)

	// Count returns the total number of places.
	Count(ctx context.Context) (int, error)
}

// normalizeRegion lowercases and trims a region key so lookups are
// insensitive to request formatting.
func normalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// orderCandidates sorts places for candidate selection: category
// matches first, then popularity descending, then ID ascending so the
// limit cut is deterministic.
func orderCandidates(places []models.Place, categories []string) {
	matches := func(p *models.Place) bool {
		for _, c := range categories {
			if p.HasCategory(c) {
				return true
			}
		}
		return false
	}

	sort.SliceStable(places, func(i, j int) bool {
		mi, mj := matches(&places[i]), matches(&places[j])
		if len(categories) > 0 && mi != mj {
			return mi
		}
		if places[i].Popularity != places[j].Popularity {
			return places[i].Popularity > places[j].Popularity
		}
		return places[i].ID < places[j].ID
	})
}
