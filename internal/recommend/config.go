// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import "fmt"

// Config contains tunable parameters for the selection engine. Rule
// thresholds and term weights are fixed constants; only the stochastic
// draw and feature flags are configurable.
type Config struct {
	// Seed is the random seed for deterministic behavior.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`

	// Temperature controls how strongly the softmax draw favors the top
	// scores. Lower is greedier. Default 0.15.
	Temperature float64 `json:"temperature" koanf:"temperature"`

	// TopK is the candidate pool size for the softmax draw. Default 10.
	TopK int `json:"top_k" koanf:"top_k"`

	// MaxMultiPick bounds how many candidates a batch request may ask for.
	MaxMultiPick int `json:"max_multi_pick" koanf:"max_multi_pick"`

	// Flags are the named feature flags. Unreadable flags default to off.
	Flags FeatureFlags `json:"flags" koanf:"flags"`
}

// FeatureFlags gates behavior still being rolled out.
type FeatureFlags struct {
	// NewUserRecencyGate enables the pre-2010 rejection rule for
	// profiles that request it.
	NewUserRecencyGate bool `json:"new_user_recency_gate" koanf:"new_user_recency_gate"`

	// TasteEngine admits the external taste term into the scorer.
	TasteEngine bool `json:"taste_engine" koanf:"taste_engine"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Seed:         0,
		Temperature:  defaultTemperature,
		TopK:         defaultTopK,
		MaxMultiPick: 5,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must be >= 0, got %f", c.Temperature)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be >= 0, got %d", c.TopK)
	}
	if c.MaxMultiPick < 1 {
		return fmt.Errorf("max_multi_pick must be >= 1, got %d", c.MaxMultiPick)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
