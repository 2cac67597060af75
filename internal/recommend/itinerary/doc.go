// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package itinerary turns scored candidates into deliverable results:
// constraint filtering, greedy route assembly with schedule feasibility,
// and top-N ranking.
//
// The assembler is a heuristic for the budget-constrained selection
// problem, not an exact solver. It inserts candidates by marginal value
// (score per minute of visit plus travel) and repairs infeasible
// schedules with a bounded backtracking pass, so results are
// deterministic for identical inputs.
package itinerary
