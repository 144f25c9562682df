// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mwhite-dev/reelpick/internal/metrics"
	"github.com/mwhite-dev/reelpick/internal/recommend"
)

// FileProvider loads the catalog from a local JSON file. The file holds a
// JSON array of candidates.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for the given catalog file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Fetch reads and decodes the catalog file.
func (p *FileProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	data, err := os.ReadFile(p.path)
	if err != nil {
		metrics.RecordCatalogFetch("error", time.Since(start))
		return nil, fmt.Errorf("read catalog file %s: %w", p.path, err)
	}

	var movies []recommend.Candidate
	if err := json.Unmarshal(data, &movies); err != nil {
		metrics.RecordCatalogFetch("error", time.Since(start))
		return nil, fmt.Errorf("decode catalog file %s: %w", p.path, err)
	}

	metrics.RecordCatalogFetch("success", time.Since(start))
	return finalize(&Snapshot{Movies: movies, Source: p.path}), nil
}
