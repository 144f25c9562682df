// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwhite-dev/reelpick/internal/config"
	"github.com/mwhite-dev/reelpick/internal/metrics"
)

// NewRouter builds the full HTTP handler tree.
func NewRouter(svc *Service, cfg *config.APIConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", svc.handleHealth)
		r.Get("/live", svc.handleHealthLive)
		r.Get("/ready", svc.handleHealthReady)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			cfg.RateLimitReqs,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
				metrics.APIRateLimitHits.WithLabelValues(req.URL.Path).Inc()
				respondError(w, req, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down", nil)
			}),
		))
		r.Use(observeMiddleware)

		r.Post("/recommend", svc.handleRecommend)
		r.Post("/recommend/batch", svc.handleBatch(cfg.MaxBatchCount))
		r.Post("/recommend/replacement", svc.handleReplacement)
		r.Post("/feedback", svc.handleFeedback)
	})

	return r
}
