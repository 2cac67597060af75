// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// seedFile is the on-disk seed format: a plain JSON array of places.
type seedFile struct {
	Places []seedPlace `json:"places"`
}

type seedPlace struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Categories    []string `json:"categories"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	VisitMinutes  int      `json:"visit_minutes"`
	OpenMinute    int      `json:"open_minute"`
	CloseMinute   int      `json:"close_minute"`
	Accessibility []string `json:"accessibility,omitempty"`
	Outdoor       bool     `json:"outdoor,omitempty"`
	CrowdTolerant bool     `json:"crowd_tolerant,omitempty"`
	Popularity    float64  `json:"popularity"`
	Region        string   `json:"region"`
}

// LoadSeed reads a seed file and inserts every place into the catalog.
// Returns the number of places loaded. Malformed places fail the whole
// load; a partially seeded catalog is worse than an error at startup.
func LoadSeed(ctx context.Context, c Catalog, path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	for i := range seed.Places {
		place, err := seed.Places[i].toModel()
		if err != nil {
			return 0, fmt.Errorf("seed place %d (%s): %w", i, seed.Places[i].ID, err)
		}
		if err := c.Put(ctx, place); err != nil {
			return 0, fmt.Errorf("seed place %d (%s): %w", i, seed.Places[i].ID, err)
		}
	}

	return len(seed.Places), nil
}

func (p *seedPlace) toModel() (models.Place, error) {
	if p.ID == "" {
		return models.Place{}, fmt.Errorf("missing id")
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return models.Place{}, fmt.Errorf("coordinates (%f, %f) out of range", p.Lat, p.Lon)
	}
	if p.Popularity < 0 || p.Popularity > 1 {
		return models.Place{}, fmt.Errorf("popularity %f outside [0, 1]", p.Popularity)
	}
	if p.OpenMinute < 0 || p.CloseMinute > 1440 || p.CloseMinute < p.OpenMinute {
		return models.Place{}, fmt.Errorf("opening hours [%d, %d] invalid", p.OpenMinute, p.CloseMinute)
	}

	return models.Place{
		ID:            p.ID,
		Name:          p.Name,
		Categories:    p.Categories,
		Location:      models.Geolocation{Lat: p.Lat, Lon: p.Lon},
		VisitDuration: time.Duration(p.VisitMinutes) * time.Minute,
		Hours:         models.OpeningHours{OpenMinute: p.OpenMinute, CloseMinute: p.CloseMinute},
		Accessibility: p.Accessibility,
		Outdoor:       p.Outdoor,
		CrowdTolerant: p.CrowdTolerant,
		Popularity:    p.Popularity,
		Region:        p.Region,
	}, nil
}
