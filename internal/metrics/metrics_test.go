// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("none"))
	RecordRecommendation("none", 5*time.Millisecond)
	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("none"))

	if after != before+1 {
		t.Errorf("recommendations_total = %v, want %v", after, before+1)
	}
}

func TestRecordRecommendation_FallbackCounter(t *testing.T) {
	before := testutil.ToFloat64(FallbacksTotal.WithLabelValues("relaxed_tags"))
	RecordRecommendation("relaxed_tags", time.Millisecond)
	RecordRecommendation("none", time.Millisecond)
	RecordRecommendation("exhausted", time.Millisecond)
	after := testutil.ToFloat64(FallbacksTotal.WithLabelValues("relaxed_tags"))

	// Only the relaxed level counts as a fallback.
	if after != before+1 {
		t.Errorf("fallbacks_total = %v, want %v", after, before+1)
	}
}

func TestRecordStoreOperation_ErrorCounting(t *testing.T) {
	before := testutil.ToFloat64(StoreErrors.WithLabelValues("put"))
	RecordStoreOperation("put", time.Millisecond, nil)
	RecordStoreOperation("put", time.Millisecond, errors.New("disk full"))
	after := testutil.ToFloat64(StoreErrors.WithLabelValues("put"))

	if after != before+1 {
		t.Errorf("store_errors_total = %v, want %v", after, before+1)
	}
}

func TestRecordCatalogFetch(t *testing.T) {
	before := testutil.ToFloat64(CatalogFetchesTotal.WithLabelValues("success"))
	RecordCatalogFetch("success", 20*time.Millisecond)
	after := testutil.ToFloat64(CatalogFetchesTotal.WithLabelValues("success"))

	if after != before+1 {
		t.Errorf("catalog_fetches_total = %v, want %v", after, before+1)
	}
}

func TestUpdateCatalogSnapshot(t *testing.T) {
	now := time.Now()
	UpdateCatalogSnapshot(1234, now)

	if got := testutil.ToFloat64(CatalogSize); got != 1234 {
		t.Errorf("catalog_entries = %v, want 1234", got)
	}
	if got := testutil.ToFloat64(CatalogSnapshotAge); got != float64(now.Unix()) {
		t.Errorf("catalog_snapshot_timestamp = %v, want %v", got, now.Unix())
	}
}

func TestRecordFeedbackEvent(t *testing.T) {
	before := testutil.ToFloat64(FeedbackEventsTotal.WithLabelValues("completed"))
	RecordFeedbackEvent("completed", time.Millisecond)
	after := testutil.ToFloat64(FeedbackEventsTotal.WithLabelValues("completed"))

	if after != before+1 {
		t.Errorf("feedback_events_total = %v, want %v", after, before+1)
	}
}
