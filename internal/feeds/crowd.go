// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// crowdResponse is the upstream wire format.
type crowdResponse struct {
	Level        float64 `json:"level"`
	SpecialEvent bool    `json:"special_event"`
	QueueMinutes int     `json:"queue_minutes"`
}

// CrowdClient fetches regional crowd estimates from an HTTP feed.
type CrowdClient struct {
	feed *httpFeed[crowdResponse]
}

// NewCrowdClient creates a crowd client for the given endpoint.
func NewCrowdClient(cfg ClientConfig, logger zerolog.Logger) *CrowdClient {
	return &CrowdClient{feed: newHTTPFeed[crowdResponse]("crowd", cfg, logger)}
}

// Crowd returns the current crowding estimate for a region.
func (c *CrowdClient) Crowd(ctx context.Context, region string) (CrowdReport, error) {
	reqURL := fmt.Sprintf("%s/v1/crowd?region=%s", c.feed.cfg.BaseURL, url.QueryEscape(region))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return CrowdReport{}, fmt.Errorf("build crowd request: %w", err)
	}

	resp, err := c.feed.fetch(req)
	if err != nil {
		return CrowdReport{}, err
	}

	queue := resp.QueueMinutes
	if queue < 0 {
		queue = 0
	}
	return CrowdReport{
		Level:        clamp01(resp.Level),
		SpecialEvent: resp.SpecialEvent,
		QueueMinutes: queue,
	}, nil
}
