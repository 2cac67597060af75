// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package itinerary

import (
	"errors"
	"testing"
	"time"

	"github.com/Smile2578/anabai-ml/internal/models"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

func withVisit(d time.Duration) func(*models.Place) {
	return func(p *models.Place) { p.VisitDuration = d }
}

func withPopularity(pop float64) func(*models.Place) {
	return func(p *models.Place) { p.Popularity = pop }
}

func dayWindow() *models.Constraints {
	// 09:00-18:00
	return &models.Constraints{WindowStart: 540, WindowEnd: 1080}
}

func TestAssembleEmptyCandidates(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	_, err := a.Assemble(nil, dayWindow(), &models.UserPreferences{})
	if !errors.Is(err, recommend.ErrInsufficientCandidates) {
		t.Fatalf("expected ErrInsufficientCandidates, got %v", err)
	}
}

func TestAssembleBasicItinerary(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	places := []models.ScoredPlace{
		scored("p1", 0.9, withVisit(60*time.Minute), withLocation(35.6762, 139.6503)),
		scored("p2", 0.8, withVisit(45*time.Minute), withLocation(35.6586, 139.7454)),
		scored("p3", 0.7, withVisit(30*time.Minute), withLocation(35.7148, 139.7967)),
	}

	it, err := a.Assemble(places, dayWindow(), &models.UserPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID == "" {
		t.Error("itinerary has no ID")
	}
	if len(it.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(it.Stops))
	}

	// Schedule must be monotone and inside the window.
	prev := 0
	for i, stop := range it.Stops {
		if stop.ArrivalMinute < prev {
			t.Errorf("stop %d arrives at %d before previous departure %d", i, stop.ArrivalMinute, prev)
		}
		if stop.DepartureMinute <= stop.ArrivalMinute {
			t.Errorf("stop %d departs at %d before arrival %d", i, stop.DepartureMinute, stop.ArrivalMinute)
		}
		if stop.DepartureMinute > 1080 {
			t.Errorf("stop %d departs at %d, past the window end", i, stop.DepartureMinute)
		}
		prev = stop.DepartureMinute
	}
	if it.Stops[0].ArrivalMinute < 540 {
		t.Errorf("first arrival %d before window start", it.Stops[0].ArrivalMinute)
	}

	wantScore := 0.9 + 0.8 + 0.7
	if diff := it.TotalScore - wantScore; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("total score = %f, want %f", it.TotalScore, wantScore)
	}
}

func TestAssembleRespectsMaxPlaces(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	places := make([]models.ScoredPlace, 0, 6)
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		places = append(places, scored(id, 0.8, withVisit(20*time.Minute)))
	}
	constraints := dayWindow()
	constraints.MaxPlaces = 2

	it, err := a.Assemble(places, constraints, &models.UserPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(it.Stops))
	}
}

func TestAssembleRespectsDurationBudget(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	// Each visit is 60 minutes; a 2.5 hour budget fits at most two.
	places := []models.ScoredPlace{
		scored("p1", 0.9, withVisit(60*time.Minute)),
		scored("p2", 0.8, withVisit(60*time.Minute)),
		scored("p3", 0.7, withVisit(60*time.Minute)),
	}
	prefs := &models.UserPreferences{Duration: 150 * time.Minute}

	it, err := a.Assemble(places, dayWindow(), prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Stops) != 2 {
		t.Fatalf("expected 2 stops under the budget, got %d", len(it.Stops))
	}
	// Greedy picks the highest-value places, so p3 is the one left out.
	for _, stop := range it.Stops {
		if stop.Place.ID == "p3" {
			t.Error("lowest-value place selected ahead of better ones")
		}
	}
}

func TestAssembleBudgetAdmitsNoStop(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	// A 60-minute visit cannot fit a 30-minute budget: nothing can be
	// placed, which is a candidate shortage, not an ordering failure.
	places := []models.ScoredPlace{
		scored("too-long", 0.9, withVisit(60*time.Minute)),
	}
	prefs := &models.UserPreferences{Duration: 30 * time.Minute}

	_, err := a.Assemble(places, dayWindow(), prefs)
	if !errors.Is(err, recommend.ErrInsufficientCandidates) {
		t.Fatalf("expected ErrInsufficientCandidates, got %v", err)
	}
}

func TestAssembleBudgetCoversDoorWait(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	// The best place opens mid-window. Visiting the always-open place
	// first would strand the schedule at a closed door for 100 minutes,
	// blowing the 2-hour budget; the assembler must reorder or drop a
	// stop instead of returning the oversized schedule.
	places := []models.ScoredPlace{
		scored("late-opener", 0.9, withVisit(60*time.Minute), withHours(700, 1200)),
		scored("anytime", 0.8, withVisit(60*time.Minute)),
	}
	prefs := &models.UserPreferences{Duration: 2 * time.Hour}

	it, err := a.Assemble(places, dayWindow(), prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.TotalDuration > prefs.Duration {
		t.Fatalf("total duration %v exceeds budget %v", it.TotalDuration, prefs.Duration)
	}
	if len(it.Stops) != 2 {
		t.Errorf("expected both stops after reordering, got %d", len(it.Stops))
	}
	if it.Stops[0].Place.ID != "late-opener" {
		t.Errorf("expected the late opener first, got %s", it.Stops[0].Place.ID)
	}
}

func TestAssemblePrefersHighScore(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	places := []models.ScoredPlace{
		scored("low", 0.2, withVisit(30*time.Minute)),
		scored("high", 0.9, withVisit(30*time.Minute)),
	}
	constraints := dayWindow()
	constraints.MaxPlaces = 1

	it, err := a.Assemble(places, constraints, &models.UserPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Stops) != 1 || it.Stops[0].Place.ID != "high" {
		t.Fatalf("expected the high-score place, got %+v", it.Stops)
	}
}

func TestAssembleWaitsForOpening(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	// Opens 10:00; window starts 09:00, so arrival waits at the door.
	places := []models.ScoredPlace{
		scored("late-opener", 0.9, withVisit(60*time.Minute), withHours(600, 1080)),
	}

	it, err := a.Assemble(places, dayWindow(), &models.UserPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Stops[0].ArrivalMinute != 600 {
		t.Errorf("arrival = %d, want 600 (opening time)", it.Stops[0].ArrivalMinute)
	}
}

func TestAssembleNoFeasibleOrdering(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	// Open only 06:00-08:00, entirely before the window: the visit can
	// never finish before closing.
	places := []models.ScoredPlace{
		scored("early-closer", 0.9, withVisit(60*time.Minute), withHours(360, 480)),
	}

	_, err := a.Assemble(places, dayWindow(), &models.UserPreferences{})
	if !errors.Is(err, recommend.ErrNoFeasibleOrdering) {
		t.Fatalf("expected ErrNoFeasibleOrdering, got %v", err)
	}
}

func TestAssembleBacktrackDropsInfeasibleStop(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	// One place closes too early to schedule after any other visit; the
	// rest are fine. Backtracking should drop the early closer and keep
	// the feasible stops.
	places := []models.ScoredPlace{
		scored("fine-1", 0.9, withVisit(60*time.Minute)),
		scored("fine-2", 0.8, withVisit(60*time.Minute)),
		scored("tight", 0.5, withVisit(120*time.Minute), withHours(540, 600)),
	}

	it, err := a.Assemble(places, dayWindow(), &models.UserPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, stop := range it.Stops {
		if stop.Place.ID == "tight" {
			t.Error("unschedulable place survived backtracking")
		}
	}
	if len(it.Stops) != 2 {
		t.Errorf("expected 2 stops after backtracking, got %d", len(it.Stops))
	}
}

func TestAssembleDeterministic(t *testing.T) {
	a := NewAssembler(recommend.DefaultConfig().Assembly)

	places := []models.ScoredPlace{
		scored("p1", 0.8, withVisit(45*time.Minute), withLocation(35.6762, 139.6503)),
		scored("p2", 0.8, withVisit(45*time.Minute), withLocation(35.6586, 139.7454), withPopularity(0.9)),
		scored("p3", 0.6, withVisit(45*time.Minute), withLocation(35.7148, 139.7967)),
	}

	first, err := a.Assemble(places, dayWindow(), &models.UserPreferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 5 {
		got, err := a.Assemble(places, dayWindow(), &models.UserPreferences{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Stops) != len(first.Stops) {
			t.Fatalf("stop count changed between runs: %d vs %d", len(got.Stops), len(first.Stops))
		}
		for i := range got.Stops {
			if got.Stops[i].Place.ID != first.Stops[i].Place.ID {
				t.Fatalf("stop order changed between runs at %d: %s vs %s",
					i, got.Stops[i].Place.ID, first.Stops[i].Place.ID)
			}
		}
	}
}
