// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for all Reelpick components.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Store    StoreConfig    `koanf:"store"`
	Engine   EngineConfig   `koanf:"engine"`
	Feedback FeedbackConfig `koanf:"feedback"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
	Moods    MoodsConfig    `koanf:"moods"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Environment selects development or production behavior.
	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// CatalogConfig selects and tunes the movie catalog source.
type CatalogConfig struct {
	// Source is "file" or "http".
	Source string `koanf:"source" validate:"oneof=file http"`

	// Path is the catalog JSON file for the file source.
	Path string `koanf:"path"`

	// URL is the catalog endpoint for the http source.
	URL string `koanf:"url" validate:"omitempty,url"`

	// RefreshInterval is how often the http source re-fetches.
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"min=1m"`

	// FetchTimeout bounds a single catalog fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"min=1s"`

	// RateLimit is the maximum catalog fetches per second.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`

	// RateBurst is the fetch rate limiter burst size.
	RateBurst int `koanf:"rate_burst" validate:"min=1"`

	// BreakerMaxFailures trips the circuit breaker after this many
	// consecutive fetch failures.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures" validate:"min=1"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout" validate:"min=1s"`
}

// StoreConfig holds learned-state persistence settings.
type StoreConfig struct {
	// Path is the Badger database directory.
	Path string `koanf:"path" validate:"required"`

	// InMemory runs Badger without disk persistence. Testing only.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval" validate:"min=1m"`
}

// EngineConfig tunes the selection engine.
type EngineConfig struct {
	// Seed seeds the softmax draw source. Zero selects the fixed default.
	Seed int64 `koanf:"seed"`

	// Temperature controls softmax exploration.
	Temperature float64 `koanf:"temperature" validate:"gt=0"`

	// TopK bounds the softmax candidate pool.
	TopK int `koanf:"top_k" validate:"min=1"`

	// MaxMultiPick caps the batch recommendation size.
	MaxMultiPick int `koanf:"max_multi_pick" validate:"min=1"`

	// NewUserRecencyGate enables the recency gate for new users.
	NewUserRecencyGate bool `koanf:"new_user_recency_gate"`

	// TasteEngine enables learned tag weights in scoring.
	TasteEngine bool `koanf:"taste_engine"`
}

// FeedbackConfig tunes the feedback processing pipeline.
type FeedbackConfig struct {
	// BufferSize is the in-process channel capacity between the API
	// publisher and the learner consumer.
	BufferSize int64 `koanf:"buffer_size" validate:"min=1"`

	// CloseTimeout bounds pipeline shutdown.
	CloseTimeout time.Duration `koanf:"close_timeout" validate:"min=1s"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	// RateLimitReqs is the per-client request budget per window.
	RateLimitReqs int `koanf:"rate_limit_reqs" validate:"min=1"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1s"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// MaxBatchCount caps the count parameter of batch recommendations.
	MaxBatchCount int `koanf:"max_batch_count" validate:"min=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MoodsConfig locates the mood mapping library.
type MoodsConfig struct {
	// Path is the mood library YAML file. Empty disables mood mappings;
	// the engine then falls back to intent-tag matching.
	Path string `koanf:"path"`
}

// defaultConfig returns a Config with all defaults applied. These are
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8480,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Catalog: CatalogConfig{
			Source:             "file",
			Path:               "/data/catalog.json",
			RefreshInterval:    15 * time.Minute,
			FetchTimeout:       10 * time.Second,
			RateLimit:          1,
			RateBurst:          2,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Store: StoreConfig{
			Path:       "/data/reelpick",
			GCInterval: 10 * time.Minute,
		},
		Engine: EngineConfig{
			Temperature:        0.15,
			TopK:               10,
			MaxMultiPick:       5,
			NewUserRecencyGate: false,
			TasteEngine:        true,
		},
		Feedback: FeedbackConfig{
			BufferSize:   256,
			CloseTimeout: 10 * time.Second,
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			MaxBatchCount:   5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Moods: MoodsConfig{
			Path: "",
		},
	}
}

// validate is the shared struct validator.
var validate = validator.New()

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	switch c.Catalog.Source {
	case "file":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file source")
		}
	case "http":
		if c.Catalog.URL == "" {
			return fmt.Errorf("catalog.url is required for the http source")
		}
	}

	return nil
}
