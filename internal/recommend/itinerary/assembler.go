// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package itinerary

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Smile2578/anabai-ml/internal/geo"
	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// Assembler builds schedule-feasible itineraries with greedy
// marginal-value insertion. It is stateless and safe for concurrent use.
type Assembler struct {
	cfg recommend.AssemblyConfig
}

// NewAssembler creates an assembler from the assembly configuration.
func NewAssembler(cfg recommend.AssemblyConfig) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble implements recommend.Assembler.
//
// Selection inserts the candidate with the highest marginal value
// (combined score per minute of visit and added travel) at its cheapest
// position until the duration, distance, and stop-count budgets are
// exhausted. Scheduling then walks the route from the window start and
// re-checks the duration budget against the scheduled span, since
// waiting at a closed door consumes time selection never charged. When
// scheduling fails, the route is reordered by closing time, and if that
// still fails the lowest-value stop is dropped, up to the configured
// backtrack limit.
func (a *Assembler) Assemble(places []models.ScoredPlace, constraints *models.Constraints, prefs *models.UserPreferences) (*models.Itinerary, error) {
	if len(places) == 0 {
		return nil, fmt.Errorf("no candidates survived constraint filtering: %w", recommend.ErrInsufficientCandidates)
	}

	route := a.selectRoute(places, constraints, prefs)
	if len(route) == 0 {
		return nil, fmt.Errorf("budgets admit no stop: %w", recommend.ErrInsufficientCandidates)
	}

	budgetMin := a.durationBudgetMinutes(constraints, prefs)

	stops, ok := a.scheduleWithinBudget(route, constraints, budgetMin)
	for backtracks := 0; !ok; backtracks++ {
		if backtracks >= a.cfg.MaxBacktracks || len(route) == 0 {
			return nil, fmt.Errorf("no ordering fits opening hours and budgets within the window: %w", recommend.ErrNoFeasibleOrdering)
		}

		// First repair attempt: visit early closers first.
		reordered := reorderByOpening(route)
		if stops, ok = a.scheduleWithinBudget(reordered, constraints, budgetMin); ok {
			route = reordered
			break
		}

		// Still stuck: sacrifice the lowest-value stop and retry.
		route = dropLowestValue(reordered)
		stops, ok = a.scheduleWithinBudget(route, constraints, budgetMin)
	}
	if !ok {
		return nil, fmt.Errorf("no ordering fits opening hours and budgets within the window: %w", recommend.ErrNoFeasibleOrdering)
	}

	return a.build(stops), nil
}

// scheduleWithinBudget schedules the route and rejects it when the
// scheduled span exceeds the duration budget. Selection only charges
// visit and travel time; door-wait time first appears in the schedule,
// so the budget must be re-checked here.
func (a *Assembler) scheduleWithinBudget(route []models.ScoredPlace, constraints *models.Constraints, budgetMin float64) ([]models.ItineraryStop, bool) {
	stops, ok := a.schedule(route, constraints)
	if !ok {
		return nil, false
	}
	if budgetMin > 0 {
		span := stops[len(stops)-1].DepartureMinute - stops[0].ArrivalMinute
		if float64(span) > budgetMin {
			return nil, false
		}
	}
	return stops, true
}

// selectRoute greedily inserts candidates by marginal value under the
// duration, distance, and stop-count budgets.
func (a *Assembler) selectRoute(places []models.ScoredPlace, constraints *models.Constraints, prefs *models.UserPreferences) []models.ScoredPlace {
	maxPlaces := a.cfg.MaxPlaces
	if constraints.MaxPlaces > 0 && constraints.MaxPlaces < maxPlaces {
		maxPlaces = constraints.MaxPlaces
	}

	budgetMin := a.durationBudgetMinutes(constraints, prefs)
	distBudget := constraints.MaxDistance

	// Deterministic consideration order: score, then popularity, then ID.
	remaining := make([]models.ScoredPlace, len(places))
	copy(remaining, places)
	sort.SliceStable(remaining, func(i, j int) bool {
		return lessByScore(&remaining[i], &remaining[j])
	})

	var route []models.ScoredPlace
	usedMin := 0.0
	usedDist := 0.0

	for len(route) < maxPlaces && len(remaining) > 0 {
		bestIdx := -1
		bestPos := 0
		bestRatio := 0.0
		bestAddedDist := 0.0
		bestAddedMin := 0.0

		for ci := range remaining {
			cand := &remaining[ci]
			pos, addedDist := bestInsertion(route, cand.Place.Location)
			addedMin := a.visitMinutes(&cand.Place) + addedDist/a.cfg.TravelSpeed

			if budgetMin > 0 && usedMin+addedMin > budgetMin {
				continue
			}
			if distBudget > 0 && usedDist+addedDist > distBudget {
				continue
			}

			ratio := cand.CombinedScore / addedMin
			if bestIdx < 0 || ratio > bestRatio {
				bestIdx, bestPos, bestRatio = ci, pos, ratio
				bestAddedDist, bestAddedMin = addedDist, addedMin
			}
		}

		if bestIdx < 0 {
			break
		}

		route = insertAt(route, bestPos, remaining[bestIdx])
		usedMin += bestAddedMin
		usedDist += bestAddedDist
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return route
}

// schedule walks the route from the window start and assigns arrival and
// departure times. Arrivals before opening wait at the door; departures
// past closing or past the window end make the route infeasible.
func (a *Assembler) schedule(route []models.ScoredPlace, constraints *models.Constraints) ([]models.ItineraryStop, bool) {
	if len(route) == 0 {
		return nil, false
	}

	hasWindow := constraints.WindowEnd > constraints.WindowStart
	cursor := constraints.WindowStart

	stops := make([]models.ItineraryStop, 0, len(route))
	for i := range route {
		sp := &route[i]

		travelDist := 0.0
		if i > 0 {
			travelDist = geo.Distance(route[i-1].Place.Location, sp.Place.Location)
		}
		arrival := cursor + int(math.Ceil(travelDist/a.cfg.TravelSpeed))

		hours := sp.Place.Hours
		if !hours.AlwaysOpen() && arrival < hours.OpenMinute {
			arrival = hours.OpenMinute
		}

		departure := arrival + int(a.visitMinutes(&sp.Place))
		if !hours.AlwaysOpen() && departure > hours.CloseMinute {
			return nil, false
		}
		if hasWindow && departure > constraints.WindowEnd {
			return nil, false
		}

		stops = append(stops, models.ItineraryStop{
			ScoredPlace:     *sp,
			ArrivalMinute:   arrival,
			DepartureMinute: departure,
			TravelDistance:  travelDist,
		})
		cursor = departure
	}

	return stops, true
}

func (a *Assembler) build(stops []models.ItineraryStop) *models.Itinerary {
	it := &models.Itinerary{
		ID:          uuid.NewString(),
		Stops:       stops,
		GeneratedAt: time.Now().UTC(),
	}
	for i := range stops {
		it.TotalScore += stops[i].CombinedScore
		it.TotalDistance += stops[i].TravelDistance
	}
	if len(stops) > 0 {
		span := stops[len(stops)-1].DepartureMinute - stops[0].ArrivalMinute
		it.TotalDuration = time.Duration(span) * time.Minute
	}
	return it
}

// durationBudgetMinutes resolves the time budget: an explicit preference
// wins, then the constraint window, then unbounded.
func (a *Assembler) durationBudgetMinutes(constraints *models.Constraints, prefs *models.UserPreferences) float64 {
	if prefs.Duration > 0 {
		return prefs.Duration.Minutes()
	}
	if window := constraints.WindowDuration(); window > 0 {
		return window.Minutes()
	}
	return 0
}

func (a *Assembler) visitMinutes(p *models.Place) float64 {
	if p.VisitDuration > 0 {
		return p.VisitDuration.Minutes()
	}
	return a.cfg.DefaultVisitDuration.Minutes()
}

// bestInsertion returns the position in the route where inserting a stop
// at loc adds the least travel distance, along with that added distance.
func bestInsertion(route []models.ScoredPlace, loc models.Geolocation) (int, float64) {
	if len(route) == 0 {
		return 0, 0
	}

	bestPos := 0
	bestAdded := math.Inf(1)
	for pos := 0; pos <= len(route); pos++ {
		var added float64
		switch {
		case pos == 0:
			added = geo.Distance(loc, route[0].Place.Location)
		case pos == len(route):
			added = geo.Distance(route[len(route)-1].Place.Location, loc)
		default:
			before := route[pos-1].Place.Location
			after := route[pos].Place.Location
			added = geo.Distance(before, loc) + geo.Distance(loc, after) - geo.Distance(before, after)
		}
		if added < bestAdded {
			bestPos, bestAdded = pos, added
		}
	}
	return bestPos, bestAdded
}

func insertAt(route []models.ScoredPlace, pos int, sp models.ScoredPlace) []models.ScoredPlace {
	route = append(route, models.ScoredPlace{})
	copy(route[pos+1:], route[pos:])
	route[pos] = sp
	return route
}

// reorderByOpening returns a copy of the route sorted by closing time,
// earliest first, so tight schedules get visited before they shut.
// Always-open places sort last.
func reorderByOpening(route []models.ScoredPlace) []models.ScoredPlace {
	out := make([]models.ScoredPlace, len(route))
	copy(out, route)
	sort.SliceStable(out, func(i, j int) bool {
		return closingMinute(out[i].Place.Hours) < closingMinute(out[j].Place.Hours)
	})
	return out
}

func closingMinute(h models.OpeningHours) int {
	if h.AlwaysOpen() {
		return 24 * 60
	}
	return h.CloseMinute
}

// dropLowestValue removes the stop with the lowest combined score,
// breaking ties by lower popularity, then higher ID.
func dropLowestValue(route []models.ScoredPlace) []models.ScoredPlace {
	if len(route) == 0 {
		return route
	}
	worst := 0
	for i := 1; i < len(route); i++ {
		if lessByScore(&route[worst], &route[i]) {
			worst = i
		}
	}
	return append(route[:worst], route[worst+1:]...)
}

// lessByScore orders places best-first: higher combined score, then
// higher popularity, then lower ID.
func lessByScore(a, b *models.ScoredPlace) bool {
	if a.CombinedScore != b.CombinedScore {
		return a.CombinedScore > b.CombinedScore
	}
	if a.Place.Popularity != b.Place.Popularity {
		return a.Place.Popularity > b.Place.Popularity
	}
	return a.Place.ID < b.Place.ID
}
