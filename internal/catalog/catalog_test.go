// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwhite-dev/reelpick/internal/recommend"
)

const catalogJSON = `[
  {
    "id": "m1",
    "title": "Quiet Harbour",
    "runtime_minutes": 104,
    "language": "en",
    "platforms": ["netflix"],
    "genres": ["drama"],
    "composite_score": 86,
    "available": true,
    "content_type": "movie",
    "year": 2021,
    "emotional": {
      "comfort": 8, "darkness": 2, "emotional_intensity": 4,
      "energy": 3, "complexity": 4, "rewatchability": 8,
      "humour": 6, "mental_stimulation": 4
    }
  },
  {
    "id": "m2",
    "title": "Pre-Tagged",
    "runtime_minutes": 95,
    "language": "hi",
    "platforms": ["prime"],
    "genres": ["comedy"],
    "tags": ["light", "feel_good", "calm", "background_friendly", "safe_bet"],
    "goodscore": 8.1,
    "available": true,
    "content_type": "movie",
    "year": 2020
  }
]`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileProvider_Fetch(t *testing.T) {
	p := NewFileProvider(writeCatalogFile(t, catalogJSON))

	snap, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if len(snap.Movies) != 2 {
		t.Fatalf("len(movies) = %d, want 2", len(snap.Movies))
	}
	if snap.LoadedAt.IsZero() {
		t.Error("snapshot has no load time")
	}

	m1 := snap.Movies[0]
	if m1.ID != "m1" || m1.Emotional == nil {
		t.Fatalf("m1 = %+v", m1)
	}
	// Tags are derived from the emotional vector at load.
	if len(m1.Tags) != 5 {
		t.Errorf("derived tags = %v, want 5 tags", m1.Tags)
	}
	if !m1.HasTag(recommend.TagFeelGood) {
		t.Errorf("tags %v missing feel_good for a high-comfort title", m1.Tags)
	}
}

func TestFileProvider_KeepsCuratedTags(t *testing.T) {
	p := NewFileProvider(writeCatalogFile(t, catalogJSON))

	snap, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	m2 := snap.Movies[1]
	if len(m2.Tags) != 5 || m2.Tags[0] != recommend.Tag("light") {
		t.Errorf("curated tags overwritten: %v", m2.Tags)
	}
}

func TestFileProvider_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		p := NewFileProvider(filepath.Join(t.TempDir(), "absent.json"))
		if _, err := p.Fetch(context.Background()); err == nil {
			t.Error("Fetch() = nil error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		p := NewFileProvider(writeCatalogFile(t, "{not json"))
		if _, err := p.Fetch(context.Background()); err == nil {
			t.Error("Fetch() = nil error for malformed file")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		p := NewFileProvider(writeCatalogFile(t, catalogJSON))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := p.Fetch(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Fetch() error = %v, want context.Canceled", err)
		}
	})
}

type stubProvider struct {
	snaps []*Snapshot
	errs  []error
	calls int
}

func (s *stubProvider) Fetch(context.Context) (*Snapshot, error) {
	i := s.calls
	s.calls++
	if i >= len(s.snaps) {
		i = len(s.snaps) - 1
	}
	return s.snaps[i], s.errs[i]
}

func TestManager_LoadAndCurrent(t *testing.T) {
	snap := &Snapshot{
		Movies:   []recommend.Candidate{{ID: "m1"}},
		LoadedAt: time.Now(),
		Source:   "test",
	}
	m := NewManager(&stubProvider{snaps: []*Snapshot{snap}, errs: []error{nil}}, 0, zerolog.Nop())

	if m.Current() != nil {
		t.Error("Current() non-nil before Load()")
	}
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := m.Current(); got != snap {
		t.Errorf("Current() = %p, want published snapshot", got)
	}
	if movies := m.Movies(); len(movies) != 1 || movies[0].ID != "m1" {
		t.Errorf("Movies() = %v", movies)
	}
}

func TestManager_LoadError(t *testing.T) {
	m := NewManager(&stubProvider{snaps: []*Snapshot{nil}, errs: []error{errors.New("down")}}, 0, zerolog.Nop())
	if err := m.Load(context.Background()); err == nil {
		t.Error("Load() = nil error, want provider error")
	}
	if m.Current() != nil {
		t.Error("failed load must not publish a snapshot")
	}
}

func TestManager_ServeKeepsLastSnapshotOnError(t *testing.T) {
	good := &Snapshot{Movies: []recommend.Candidate{{ID: "m1"}}, LoadedAt: time.Now()}
	p := &stubProvider{
		snaps: []*Snapshot{good, nil},
		errs:  []error{nil, errors.New("down")},
	}
	m := NewManager(p, 5*time.Millisecond, zerolog.Nop())
	if err := m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = m.Serve(ctx)

	if got := m.Current(); got != good {
		t.Errorf("Current() = %p, want last good snapshot after refresh errors", got)
	}
	if p.calls < 2 {
		t.Errorf("provider calls = %d, want refresh attempts", p.calls)
	}
}
