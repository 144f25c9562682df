// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package main is the entry point for the Reelpick server.
//
// Reelpick is a self-hosted movie recommendation service. It scores a
// streaming catalog against a per-user learned profile and answers "what
// should I watch tonight" with exactly one title, a diverse shortlist, or
// an honest explanation of why nothing fits.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml, REELPICK_* env)
//  2. Logging: zerolog, JSON or console format
//  3. Store: BadgerDB for learned per-user state and fallback audit records
//  4. Catalog: file or HTTP source with periodic refresh
//  5. Engine: deterministic seeded selection engine
//  6. Feedback: Watermill pipeline feeding the learner
//  7. HTTP Server: Chi REST API with Prometheus metrics
//
// All long-running components run under a suture v4 supervision tree and
// restart with backoff on failure.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): REELPICK_* environment variables, then config.yaml,
// then built-in defaults.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP server
// drains in-flight requests, the feedback pipeline flushes queued events,
// and the store closes cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwhite-dev/reelpick/internal/api"
	"github.com/mwhite-dev/reelpick/internal/catalog"
	"github.com/mwhite-dev/reelpick/internal/config"
	"github.com/mwhite-dev/reelpick/internal/feedback"
	"github.com/mwhite-dev/reelpick/internal/logging"
	"github.com/mwhite-dev/reelpick/internal/recommend"
	"github.com/mwhite-dev/reelpick/internal/store"
	"github.com/mwhite-dev/reelpick/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Int("port", cfg.Server.Port).
		Msg("starting reelpick")

	moods, err := config.LoadMoodLibrary(cfg.Moods.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Moods.Path).Msg("failed to load mood library")
	}

	st, err := store.Open(store.Options{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		GCInterval: cfg.Store.GCInterval,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("store close failed")
		}
	}()

	engine, err := recommend.NewEngine(&recommend.Config{
		Seed:         cfg.Engine.Seed,
		Temperature:  cfg.Engine.Temperature,
		TopK:         cfg.Engine.TopK,
		MaxMultiPick: cfg.Engine.MaxMultiPick,
		Flags: recommend.FeatureFlags{
			NewUserRecencyGate: cfg.Engine.NewUserRecencyGate,
			TasteEngine:        cfg.Engine.TasteEngine,
		},
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create engine")
	}
	engine.SetAuditSink(store.NewAuditLog(st))

	mgr := catalog.NewManager(newCatalogProvider(&cfg.Catalog), cfg.Catalog.RefreshInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed initial load is not fatal. The service comes up degraded
	// and the refresh worker keeps retrying.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Catalog.FetchTimeout+5*time.Second)
	if err := mgr.Load(loadCtx); err != nil {
		logging.Warn().Err(err).Msg("initial catalog load failed, serving degraded until refresh succeeds")
	}
	cancelLoad()

	pipeline, err := feedback.NewPipeline(feedback.Options{
		BufferSize:   cfg.Feedback.BufferSize,
		CloseTimeout: cfg.Feedback.CloseTimeout,
	}, st, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create feedback pipeline")
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("feedback pipeline close failed")
		}
	}()

	svc := api.NewService(engine, mgr, st, moods, pipeline, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(svc, &cfg.API),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if !cfg.Store.InMemory {
		tree.AddDataService(st)
	}
	tree.AddFeedService(mgr)
	tree.AddFeedService(pipeline)
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("reelpick listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervision tree exited")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}

	logging.Info().Msg("reelpick stopped")
}

// newCatalogProvider selects the catalog source from configuration.
// Config validation has already guaranteed the source is file or http.
func newCatalogProvider(cfg *config.CatalogConfig) catalog.Provider {
	if cfg.Source == "http" {
		return catalog.NewHTTPProvider(cfg.URL, catalog.HTTPOptions{
			FetchTimeout:       cfg.FetchTimeout,
			RateLimit:          cfg.RateLimit,
			RateBurst:          cfg.RateBurst,
			BreakerMaxFailures: cfg.BreakerMaxFailures,
			BreakerTimeout:     cfg.BreakerTimeout,
		})
	}
	return catalog.NewFileProvider(cfg.Path)
}
