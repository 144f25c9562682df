// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mwhite-dev/reelpick/internal/metrics"
	"github.com/mwhite-dev/reelpick/internal/recommend"
)

// maxCatalogBytes caps a catalog response body.
const maxCatalogBytes = 64 << 20 // 64MB

// HTTPOptions tunes the HTTP catalog provider.
type HTTPOptions struct {
	// FetchTimeout bounds a single fetch.
	FetchTimeout time.Duration

	// RateLimit is the maximum fetches per second; RateBurst its burst.
	RateLimit float64
	RateBurst int

	// BreakerMaxFailures trips the circuit after this many consecutive
	// failures. BreakerTimeout is how long the circuit stays open.
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DefaultHTTPOptions returns production defaults.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		FetchTimeout:       10 * time.Second,
		RateLimit:          1,
		RateBurst:          2,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// HTTPProvider fetches the catalog from a remote endpoint. Fetches are
// rate-limited and wrapped in a circuit breaker; when the endpoint is down
// the provider serves the last good snapshot instead of failing.
type HTTPProvider struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*Snapshot]

	mu       sync.RWMutex
	lastGood *Snapshot
}

// NewHTTPProvider creates a provider for the given catalog endpoint.
func NewHTTPProvider(url string, opts HTTPOptions) *HTTPProvider {
	cbName := "catalog-http"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*Snapshot](gobreaker.Settings{
		Name:    cbName,
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerMaxFailures
		},
		OnStateChange: func(name string, _, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &HTTPProvider{
		url:     url,
		client:  &http.Client{Timeout: opts.FetchTimeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		cb:      cb,
	}
}

// Fetch retrieves a fresh snapshot. When the breaker is open or the fetch
// fails, the last good snapshot is returned instead; the error is only
// surfaced when no snapshot was ever loaded.
func (p *HTTPProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog rate limiter: %w", err)
	}

	start := time.Now()
	snap, err := p.cb.Execute(func() (*Snapshot, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "breaker_open"
		}
		metrics.RecordCatalogFetch(result, time.Since(start))

		if last := p.LastGood(); last != nil {
			return last, nil
		}
		return nil, fmt.Errorf("catalog fetch %s: %w", p.url, err)
	}

	metrics.RecordCatalogFetch("success", time.Since(start))
	p.mu.Lock()
	p.lastGood = snap
	p.mu.Unlock()
	return snap, nil
}

// LastGood returns the most recent successful snapshot, or nil.
func (p *HTTPProvider) LastGood() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastGood
}

func (p *HTTPProvider) fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var movies []recommend.Candidate
	if err := json.Unmarshal(body, &movies); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return finalize(&Snapshot{Movies: movies, Source: p.url}), nil
}

// stateToFloat converts circuit breaker state to a metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
