// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package geo

import (
	"math"
	"testing"

	"github.com/Smile2578/anabai-ml/internal/models"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      models.Geolocation
		expectedM float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         models.Geolocation{Lat: 35.6762, Lon: 139.6503},
			b:         models.Geolocation{Lat: 35.6762, Lon: 139.6503},
			expectedM: 0,
			tolerance: 1,
		},
		{
			name:      "tokyo station to shibuya",
			a:         models.Geolocation{Lat: 35.6812, Lon: 139.7671},
			b:         models.Geolocation{Lat: 35.6580, Lon: 139.7016},
			expectedM: 6400,
			tolerance: 500,
		},
		{
			name:      "paris to london",
			a:         models.Geolocation{Lat: 48.8566, Lon: 2.3522},
			b:         models.Geolocation{Lat: 51.5074, Lon: -0.1278},
			expectedM: 343500,
			tolerance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.expectedM) > tt.tolerance {
				t.Errorf("Distance() = %.0f m, want ~%.0f m", got, tt.expectedM)
			}
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	a := models.Geolocation{Lat: 35.6762, Lon: 139.6503}
	b := models.Geolocation{Lat: 34.6937, Lon: 135.5023}

	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Distance not symmetric: %.6f vs %.6f", d1, d2)
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name      string
		locations []models.Geolocation
		want      models.Geolocation
		wantOK    bool
	}{
		{
			name:   "empty input",
			wantOK: false,
		},
		{
			name:      "single point",
			locations: []models.Geolocation{{Lat: 10, Lon: 20}},
			want:      models.Geolocation{Lat: 10, Lon: 20},
			wantOK:    true,
		},
		{
			name: "average of points",
			locations: []models.Geolocation{
				{Lat: 0, Lon: 0},
				{Lat: 2, Lon: 4},
			},
			want:   models.Geolocation{Lat: 1, Lon: 2},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Centroid(tt.locations)
			if ok != tt.wantOK {
				t.Fatalf("Centroid() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(got.Lat-tt.want.Lat) > 1e-9 || math.Abs(got.Lon-tt.want.Lon) > 1e-9 {
				t.Errorf("Centroid() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
