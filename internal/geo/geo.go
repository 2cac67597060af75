// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package geo provides spherical distance and centroid helpers used by the
// constraint filter and the itinerary assembler.
package geo

import (
	"math"

	"github.com/Smile2578/anabai-ml/internal/models"
)

// Distance calculates the great-circle distance between two points in meters.
// Uses the Haversine formula for accurate spherical distance.
func Distance(a, b models.Geolocation) float64 {
	const earthRadiusM = 6371000.0

	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// Centroid returns the arithmetic centroid of the given locations.
// Adequate for city-scale extents where spherical curvature is negligible.
// Returns a zero value and false for an empty input.
func Centroid(locations []models.Geolocation) (models.Geolocation, bool) {
	if len(locations) == 0 {
		return models.Geolocation{}, false
	}

	var sumLat, sumLon float64
	for _, loc := range locations {
		sumLat += loc.Lat
		sumLon += loc.Lon
	}

	n := float64(len(locations))
	return models.Geolocation{Lat: sumLat / n, Lon: sumLon / n}, true
}
