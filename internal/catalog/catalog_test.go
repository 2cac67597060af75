// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/models"
)

func testPlace(id, region string, popularity float64, categories ...string) models.Place {
	return models.Place{
		ID:         id,
		Name:       id,
		Categories: categories,
		Location:   models.Geolocation{Lat: 35.6762, Lon: 139.6503},
		Popularity: popularity,
		Region:     region,
	}
}

// catalogUnderTest runs the same suite against both implementations.
func catalogUnderTest(t *testing.T) map[string]Catalog {
	t.Helper()

	badgerCatalog, err := OpenBadger("", zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = badgerCatalog.Close() })

	return map[string]Catalog{
		"badger": badgerCatalog,
		"memory": NewMemory(),
	}
}

func TestCatalogPutGet(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := c.Put(ctx, testPlace("p1", "tokyo", 0.8, "cultural")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := c.Get(ctx, "p1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != "p1" || got.Region != "tokyo" {
				t.Errorf("got %+v, want p1 in tokyo", got)
			}

			_, err = c.Get(ctx, "missing")
			if !errors.Is(err, ErrPlaceNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrPlaceNotFound", err)
			}
		})
	}
}

func TestCatalogPutRejectsEmptyID(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put(context.Background(), models.Place{Name: "nameless"}); err == nil {
				t.Error("Put() accepted a place without ID")
			}
		})
	}
}

func TestCatalogRegionNormalization(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := c.Put(ctx, testPlace("p1", " Tokyo ", 0.8)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := c.Candidates(ctx, "TOKYO", nil, 10)
			if err != nil {
				t.Fatalf("Candidates() error = %v", err)
			}
			if len(got) != 1 {
				t.Errorf("got %d candidates for differently-cased region, want 1", len(got))
			}
		})
	}
}

func TestCatalogCandidatesOrdering(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			places := []models.Place{
				testPlace("popular-mismatch", "tokyo", 0.9, "gastronomic"),
				testPlace("modest-match", "tokyo", 0.4, "cultural"),
				testPlace("popular-match", "tokyo", 0.8, "cultural"),
			}
			for _, p := range places {
				if err := c.Put(ctx, p); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}

			got, err := c.Candidates(ctx, "tokyo", []string{"cultural"}, 10)
			if err != nil {
				t.Fatalf("Candidates() error = %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("got %d candidates, want all 3", len(got))
			}

			wantOrder := []string{"popular-match", "modest-match", "popular-mismatch"}
			for i, want := range wantOrder {
				if got[i].ID != want {
					t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestCatalogCandidatesLimit(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, id := range []string{"p1", "p2", "p3", "p4"} {
				if err := c.Put(ctx, testPlace(id, "tokyo", 0.5)); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}

			got, err := c.Candidates(ctx, "tokyo", nil, 2)
			if err != nil {
				t.Fatalf("Candidates() error = %v", err)
			}
			if len(got) != 2 {
				t.Errorf("got %d candidates, want limit 2", len(got))
			}
		})
	}
}

func TestCatalogDelete(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := c.Put(ctx, testPlace("p1", "tokyo", 0.8)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := c.Delete(ctx, "p1"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			if _, err := c.Get(ctx, "p1"); !errors.Is(err, ErrPlaceNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrPlaceNotFound", err)
			}

			got, err := c.Candidates(ctx, "tokyo", nil, 10)
			if err != nil {
				t.Fatalf("Candidates() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("deleted place still in candidates: %v", got)
			}
		})
	}
}

func TestCatalogNearby(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			shibuya := testPlace("shibuya", "tokyo", 0.8)
			shibuya.Location = models.Geolocation{Lat: 35.6580, Lon: 139.7016}
			yokohama := testPlace("yokohama", "yokohama", 0.8)
			yokohama.Location = models.Geolocation{Lat: 35.4437, Lon: 139.6380}

			for _, p := range []models.Place{shibuya, yokohama} {
				if err := c.Put(ctx, p); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}

			got, err := c.Nearby(ctx, models.Geolocation{Lat: 35.6586, Lon: 139.7454}, 10000)
			if err != nil {
				t.Fatalf("Nearby() error = %v", err)
			}
			if len(got) != 1 || got[0].ID != "shibuya" {
				t.Errorf("Nearby() = %v, want only shibuya", got)
			}
		})
	}
}

func TestCatalogRegionsAndCount(t *testing.T) {
	for name, c := range catalogUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, p := range []models.Place{
				testPlace("p1", "tokyo", 0.5),
				testPlace("p2", "kyoto", 0.5),
				testPlace("p3", "tokyo", 0.5),
			} {
				if err := c.Put(ctx, p); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}

			regions, err := c.Regions(ctx)
			if err != nil {
				t.Fatalf("Regions() error = %v", err)
			}
			if len(regions) != 2 || regions[0] != "kyoto" || regions[1] != "tokyo" {
				t.Errorf("Regions() = %v, want [kyoto tokyo]", regions)
			}

			count, err := c.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if count != 3 {
				t.Errorf("Count() = %d, want 3", count)
			}
		})
	}
}

func TestBadgerCatalogPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog")
	ctx := context.Background()

	first, err := OpenBadger(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	if err := first.Put(ctx, testPlace("p1", "tokyo", 0.8, "cultural")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := OpenBadger(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Region != "tokyo" {
		t.Errorf("reloaded place region = %s, want tokyo", got.Region)
	}

	candidates, err := second.Candidates(ctx, "tokyo", nil, 10)
	if err != nil {
		t.Fatalf("Candidates() after reopen error = %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("region index not rebuilt: got %d candidates", len(candidates))
	}
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	seed := `{
  "places": [
    {
      "id": "senso-ji",
      "name": "Senso-ji Temple",
      "categories": ["cultural", "historical"],
      "lat": 35.7148,
      "lon": 139.7967,
      "visit_minutes": 60,
      "open_minute": 360,
      "close_minute": 1020,
      "outdoor": true,
      "popularity": 0.95,
      "region": "tokyo"
    },
    {
      "id": "teamlab",
      "name": "teamLab Planets",
      "categories": ["art"],
      "lat": 35.6495,
      "lon": 139.7898,
      "visit_minutes": 120,
      "open_minute": 540,
      "close_minute": 1260,
      "popularity": 0.9,
      "region": "tokyo"
    }
  ]
}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	c := NewMemory()
	n, err := LoadSeed(context.Background(), c, path)
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d places, want 2", n)
	}

	got, err := c.Get(context.Background(), "senso-ji")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Outdoor || got.Hours.OpenMinute != 360 {
		t.Errorf("seed fields not mapped: %+v", got)
	}
}

func TestLoadSeedRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	seed := `{"places": [{"id": "bad", "lat": 200, "lon": 0, "popularity": 0.5, "region": "tokyo"}]}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if _, err := LoadSeed(context.Background(), NewMemory(), path); err == nil {
		t.Error("LoadSeed() accepted out-of-range coordinates")
	}
}
