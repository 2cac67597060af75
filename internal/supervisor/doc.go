// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

// Package supervisor provides the suture/v4 supervision tree for the
// long-running components of the service.
//
// # Tree Structure
//
//	anabai (root)
//	├── context-layer
//	│   └── snapshot-refresh    prewarms context snapshots per region
//	├── learning-layer
//	│   └── feedback-loop       applies queued feedback to the weights
//	└── api-layer
//	    └── http-server         chi router behind graceful shutdown
//
// Each layer is its own supervisor so a crashing service is restarted
// in isolation: a panic in the feedback loop never interrupts request
// serving, and a wedged feed refresher never blocks learning.
//
// # Restart Policy
//
// All supervisors share the same spec: five failures with a thirty
// second decay puts the layer into a fifteen second backoff. Events are
// logged through sutureslog into the application's zerolog output via
// logging.NewSlogLogger.
//
// # Usage
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddLearningService(feedbackLoop)
//	tree.AddContextService(services.NewSnapshotRefreshService(builder, catalog, cfg, logger))
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
//	err = tree.Serve(ctx)
package supervisor
