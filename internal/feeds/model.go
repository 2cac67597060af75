// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Smile2578/anabai-ml/internal/recommend"
)

// modelRequest is the inference request wire format.
type modelRequest struct {
	Input string `json:"input"`
}

// modelResponse is the inference response wire format.
type modelResponse struct {
	Score float64 `json:"score"`
}

// ModelClient invokes a remote inference endpoint. It implements
// recommend.ModelScorer and shares the feed resilience plumbing, so an
// unhealthy model service trips its own breaker without affecting the
// weather and crowd feeds.
type ModelClient struct {
	feed *httpFeed[modelResponse]
}

// NewModelClient creates a model scorer client for the given endpoint.
func NewModelClient(cfg ClientConfig, logger zerolog.Logger) *ModelClient {
	return &ModelClient{feed: newHTTPFeed[modelResponse]("model", cfg, logger)}
}

// Invoke sends the input to the inference endpoint and returns its
// score clamped to [0, 1].
func (c *ModelClient) Invoke(ctx context.Context, input string) (float64, error) {
	payload, err := json.Marshal(modelRequest{Input: input})
	if err != nil {
		return 0, fmt.Errorf("encode model request: %w", err)
	}

	reqURL := c.feed.cfg.BaseURL + "/v1/score"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.feed.fetch(req)
	if err != nil {
		return 0, err
	}
	return clamp01(resp.Score), nil
}

// compile-time interface check
var _ recommend.ModelScorer = (*ModelClient)(nil)
