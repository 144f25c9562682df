// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package recommend implements the movie selection engine.
//
// # Architecture
//
// The engine picks a single movie (or a small diverse set) from a catalog
// snapshot for one user profile:
//
//   - Validation Gate: ordered hard/soft rules, first failure wins
//   - Scorer: five weighted terms combined into a [0,1] desirability score
//   - Selector: softmax-weighted stochastic pick over the top candidates
//   - Fallback Cascade: relaxes soft constraints in strict, audited steps
//   - Stop-Condition Diagnoser: one specific user-facing reason when empty
//   - Tag-Weight Learner: pure per-tag weight updates from feedback
//
// # Design Principles
//
//   - Deterministic: randomness comes from an injected seeded source
//   - Pure: the engine never mutates caller-supplied snapshots and performs
//     no I/O beyond the fire-and-forget audit sink
//   - Recoverable: validation failures and stop conditions are data, not
//     errors; the engine degrades, it does not crash
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	result := engine.Recommend(profile, catalog, recommend.TimeEvening)
//	if result.Movie != nil {
//	    // present result.Movie.Candidate
//	} else {
//	    // present result.Stop.ShortMessage()
//	}
//
// # Thread Safety
//
// A single Engine is safe for concurrent use provided each caller owns its
// profile and catalog snapshots. Learned state (tag weights, platform bias,
// dimensional counters) is read in through the profile and never written by
// the engine; UpdateTagWeights returns a new map for the caller to persist.
//
// This package has no dependencies on other internal packages so that
// collaborators (catalog, store, api) can depend on it freely.
package recommend
