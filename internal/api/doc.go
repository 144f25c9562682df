// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package api provides the HTTP surface of Reelpick using the Chi router.
//
// Endpoints (all under /api/v1):
//
//	POST /recommend              one pick for tonight
//	POST /recommend/batch        up to N diverse picks
//	POST /recommend/replacement  substitute for a rejected pick
//	POST /feedback               user feedback for the learner
//	GET  /health, /health/live, /health/ready
//
// Prometheus metrics are exposed on /metrics outside the versioned tree.
package api
