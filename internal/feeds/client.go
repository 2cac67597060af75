// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Smile2578/anabai-ml/internal/metrics"
	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// maxFeedBodyBytes bounds response bodies so a misbehaving upstream
// cannot exhaust memory.
const maxFeedBodyBytes = 1 << 20

// httpFeed bundles the resilience plumbing shared by the weather and
// crowd clients: HTTP transport, circuit breaker, and rate limiter.
type httpFeed[T any] struct {
	name    string
	cfg     ClientConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[T]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

func newHTTPFeed[T any](name string, cfg ClientConfig, logger zerolog.Logger) *httpFeed[T] {
	cfg = cfg.withDefaults()
	log := logger.With().Str("component", "feeds").Str("feed", name).Logger()

	breaker := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("feed circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &httpFeed[T]{
		name:    name,
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  log,
	}
}

// fetch performs a rate-limited GET through the circuit breaker and
// decodes the JSON body into T. Breaker rejections and transport
// failures are wrapped in ErrUpstreamTimeout so callers see a single
// upstream failure mode.
func (f *httpFeed[T]) fetch(req *http.Request) (T, error) {
	var zero T

	if err := f.limiter.Wait(req.Context()); err != nil {
		return zero, fmt.Errorf("%w: rate limiter: %w", recommend.ErrUpstreamTimeout, err)
	}

	result, err := f.breaker.Execute(func() (T, error) {
		return f.doRequest(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			f.logger.Warn().Err(err).Msg("feed request rejected by circuit breaker")
			metrics.RecordFeedRequest(f.name, "rejected")
		} else {
			metrics.RecordFeedRequest(f.name, "failure")
		}
		return zero, fmt.Errorf("%w: %s: %w", recommend.ErrUpstreamTimeout, f.cfg.BaseURL, err)
	}
	metrics.RecordFeedRequest(f.name, "success")
	return result, nil
}

func (f *httpFeed[T]) doRequest(req *http.Request) (T, error) {
	var zero T

	if f.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
