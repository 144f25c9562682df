// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package store

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// gcDiscardRatio rewrites a value log file when at least this fraction of
// it is stale.
const gcDiscardRatio = 0.5

// Serve runs periodic value-log garbage collection until the context is
// canceled. It implements suture.Service.
func (s *Store) Serve(ctx context.Context) error {
	if s.gcInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// One GC pass reclaims at most one file; loop until nothing
			// is left to rewrite.
			for {
				err := s.db.RunValueLogGC(gcDiscardRatio)
				if errors.Is(err, badger.ErrNoRewrite) {
					break
				}
				if err != nil {
					s.logger.Debug().Err(err).Msg("value log gc pass skipped")
					break
				}
			}
		}
	}
}
