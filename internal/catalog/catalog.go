// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package catalog loads and serves movie catalog snapshots.
//
// A snapshot is an immutable slice of candidates taken from a source (a
// local JSON file or an HTTP endpoint). Providers fill in derived tags for
// entries that arrive without them, so the selection engine always sees a
// complete taxonomy. The Manager keeps the current snapshot and refreshes
// it in the background.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwhite-dev/reelpick/internal/metrics"
	"github.com/mwhite-dev/reelpick/internal/recommend"
)

// Snapshot is one immutable catalog load. Movies must not be mutated after
// the snapshot is published.
type Snapshot struct {
	Movies   []recommend.Candidate
	LoadedAt time.Time
	Source   string
}

// Provider fetches catalog snapshots from a source.
type Provider interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// finalize derives missing tags and stamps the snapshot. Entries that
// already carry tags are left alone so curated catalogs win over derivation.
func finalize(snap *Snapshot) *Snapshot {
	for i := range snap.Movies {
		c := &snap.Movies[i]
		if len(c.Tags) == 0 {
			c.Tags = recommend.DeriveTags(c.Emotional, ratingOutOfTen(c))
		}
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now()
	}
	return snap
}

// ratingOutOfTen normalizes a candidate's quality score to a 0-10 scale,
// preferring the composite score.
func ratingOutOfTen(c *recommend.Candidate) float64 {
	if c.CompositeScore > 0 {
		return c.CompositeScore / 10
	}
	if c.GoodScore > 10 {
		return c.GoodScore / 10
	}
	return c.GoodScore
}

// Manager holds the current snapshot and refreshes it periodically.
// Current never blocks on a refresh in flight.
type Manager struct {
	provider Provider
	interval time.Duration
	logger   zerolog.Logger

	snapshot atomic.Pointer[Snapshot]
}

// NewManager creates a manager around a provider. interval controls the
// background refresh cadence.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewManager(provider Provider, interval time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		provider: provider,
		interval: interval,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// Load performs an initial blocking fetch and publishes the snapshot.
func (m *Manager) Load(ctx context.Context) error {
	snap, err := m.provider.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}
	m.publish(snap)
	return nil
}

// Current returns the current snapshot, or nil before the first load.
func (m *Manager) Current() *Snapshot {
	return m.snapshot.Load()
}

// Movies returns the movies of the current snapshot, or nil before the
// first load.
func (m *Manager) Movies() []recommend.Candidate {
	if snap := m.snapshot.Load(); snap != nil {
		return snap.Movies
	}
	return nil
}

// Serve refreshes the snapshot on the configured interval until the
// context is canceled. It implements suture.Service.
func (m *Manager) Serve(ctx context.Context) error {
	if m.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap, err := m.provider.Fetch(ctx)
			if err != nil {
				// The previous snapshot stays published.
				m.logger.Warn().Err(err).Msg("catalog refresh failed")
				continue
			}
			m.publish(snap)
		}
	}
}

func (m *Manager) publish(snap *Snapshot) {
	m.snapshot.Store(snap)
	metrics.UpdateCatalogSnapshot(len(snap.Movies), snap.LoadedAt)
	m.logger.Info().
		Int("movies", len(snap.Movies)).
		Str("source", snap.Source).
		Msg("catalog snapshot published")
}
