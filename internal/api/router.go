// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Smile2578/anabai-ml/internal/config"
	"github.com/Smile2578/anabai-ml/internal/metrics"
	"github.com/Smile2578/anabai-ml/internal/middleware"
)

// Router wires handlers into the chi route tree.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig
}

// NewRouter creates a router serving the given handler set.
func NewRouter(cfg config.ServerConfig, handler *Handler) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup builds the full route tree with the shared middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)    // X-Request-ID header plus logging context
	r.Use(chimiddleware.RealIP)    // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer) // Recover from panics
	if len(router.cfg.CORSOrigins) > 0 {
		// CORS must be global to handle OPTIONS preflight
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   router.cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "ETag"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring can poll frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Post("/generate", router.handler.Generate)
		r.Post("/recommendations", router.handler.Recommend)
		r.Post("/score/base", router.handler.ScoreBase)
		r.Post("/score/contextual", router.handler.ScoreContextual)
		r.Post("/feedback", router.handler.Feedback)
		r.Get("/weights", router.handler.Weights)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit builds the per-IP limiter for the data endpoints. A 429 is
// reported through the standard error envelope and counted per endpoint.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	reqs := router.cfg.RateLimitReqs
	window := router.cfg.RateLimitWindow
	if reqs <= 0 {
		reqs = 120
	}
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(reqs, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, codeRateLimitExceeded, "Rate limit exceeded", nil)
		}),
	)
}
