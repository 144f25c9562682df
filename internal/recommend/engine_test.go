// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import (
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return engine
}

type captureSink struct {
	records []FallbackAuditRecord
}

func (s *captureSink) RecordFallback(rec FallbackAuditRecord) {
	s.records = append(s.records, rec)
}

type panicSink struct{}

func (panicSink) RecordFallback(FallbackAuditRecord) { panic("sink down") }

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		engine, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error: %v", err)
		}
		if engine.config.TopK != defaultTopK {
			t.Errorf("TopK = %d, want %d", engine.config.TopK, defaultTopK)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Temperature = -1
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() with negative temperature should fail")
		}
	})
}

// Scenario: a single candidate that satisfies every rule is returned
// deterministically at fallback level none.
func TestRecommend_HappyPath(t *testing.T) {
	engine := newTestEngine(t, nil)
	catalog := []Candidate{testCandidate()}

	result := engine.Recommend(testProfile(), catalog, TimeEvening)

	if result.Movie == nil {
		t.Fatalf("Recommend() returned stop %s, want movie", result.Stop)
	}
	if result.Movie.Candidate.ID != "m1" {
		t.Errorf("movie = %s, want m1", result.Movie.Candidate.ID)
	}
	if result.Level != LevelNone {
		t.Errorf("level = %s, want none", result.Level)
	}
	if result.Stop != StopNone {
		t.Errorf("stop = %s, want empty", result.Stop)
	}
}

// Scenario: intent tags with no overlap even after family expansion walk
// the whole cascade and exhaust.
func TestRecommend_Exhausted(t *testing.T) {
	engine := newTestEngine(t, nil)
	sink := &captureSink{}
	engine.SetAuditSink(sink)

	catalog := []Candidate{testCandidate()} // tags: feel_good, safe_bet
	p := testProfile()
	p.IntentTags = []Tag{TagDark} // expands to dark family, still no overlap

	result := engine.Recommend(p, catalog, TimeEvening)

	if result.Movie != nil {
		t.Fatalf("Recommend() = %s, want exhausted", result.Movie.Candidate.ID)
	}
	if result.Level != LevelExhausted {
		t.Errorf("level = %s, want exhausted", result.Level)
	}
	if result.Stop != StopNoTagMatch {
		t.Errorf("stop = %s, want %s", result.Stop, StopNoTagMatch)
	}

	if len(sink.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(sink.records))
	}
	rec := sink.records[0]
	if rec.Level != LevelExhausted {
		t.Errorf("audit level = %s, want exhausted", rec.Level)
	}
	if rec.UserID != "u1" || rec.PreFallbackCandidates != 0 {
		t.Errorf("audit record = %+v", rec)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	engine := newTestEngine(t, nil)
	result := engine.Recommend(testProfile(), nil, TimeEvening)

	if result.Movie != nil {
		t.Fatal("Recommend(empty catalog) returned a movie")
	}
	if result.Stop != StopEmptyCatalog {
		t.Errorf("stop = %s, want %s", result.Stop, StopEmptyCatalog)
	}
}

// A candidate only reachable through family expansion comes back at level 1
// with an audit record.
func TestRecommend_FallbackRelaxedTags(t *testing.T) {
	engine := newTestEngine(t, nil)
	sink := &captureSink{}
	engine.SetAuditSink(sink)

	c := testCandidate()
	c.Tags = []Tag{TagUplifting} // in the feel_good family
	p := testProfile()
	p.IntentTags = []Tag{TagFeelGood}

	result := engine.Recommend(p, []Candidate{c}, TimeEvening)

	if result.Movie == nil {
		t.Fatalf("Recommend() stop %s, want movie via fallback", result.Stop)
	}
	if result.Level != LevelRelaxedTags {
		t.Errorf("level = %s, want relaxed_tags", result.Level)
	}

	if len(sink.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(sink.records))
	}
	rec := sink.records[0]
	if rec.ChosenID != "m1" || rec.Level != LevelRelaxedTags {
		t.Errorf("audit record = %+v", rec)
	}
	if !containsTag(rec.RelaxedIntentTags, TagUplifting) {
		t.Errorf("relaxed tags %v missing expansion", rec.RelaxedIntentTags)
	}
}

// A candidate just outside the runtime window comes back at level 2.
func TestRecommend_FallbackRelaxedRuntime(t *testing.T) {
	engine := newTestEngine(t, nil)

	c := testCandidate()
	c.RuntimeMinutes = 130 // outside 90-120, inside 75-135
	p := testProfile()

	result := engine.Recommend(p, []Candidate{c}, TimeEvening)

	if result.Movie == nil {
		t.Fatalf("Recommend() stop %s, want movie via fallback", result.Stop)
	}
	if result.Level != LevelRelaxedRuntime {
		t.Errorf("level = %s, want relaxed_runtime", result.Level)
	}
}

func TestRecommend_AuditSinkPanicIsSwallowed(t *testing.T) {
	engine := newTestEngine(t, nil)
	engine.SetAuditSink(panicSink{})

	c := testCandidate()
	c.RuntimeMinutes = 130
	result := engine.Recommend(testProfile(), []Candidate{c}, TimeEvening)

	if result.Movie == nil {
		t.Fatal("a panicking audit sink must not lose the recommendation")
	}
}

func TestRecommend_LevelZeroEmitsNoAudit(t *testing.T) {
	engine := newTestEngine(t, nil)
	sink := &captureSink{}
	engine.SetAuditSink(sink)

	engine.Recommend(testProfile(), []Candidate{testCandidate()}, TimeEvening)

	if len(sink.records) != 0 {
		t.Errorf("audit records = %d, want 0 for level none", len(sink.records))
	}
}

func TestRecommend_DoesNotMutateProfile(t *testing.T) {
	engine := newTestEngine(t, nil)

	p := testProfile()
	p.IntentTags = []Tag{TagDark}
	p.MoodMapping = &MoodMapping{
		Version:    1,
		Dimensions: map[Dimension]DimensionRule{DimEnergy: {Min: 3, Max: 7, Ideal: 5, Weight: 1}},
		AntiTags:   []Tag{TagCalm},
	}

	engine.Recommend(p, []Candidate{testCandidate()}, TimeEvening)

	if len(p.IntentTags) != 1 || p.IntentTags[0] != TagDark {
		t.Errorf("intent tags mutated: %v", p.IntentTags)
	}
	if got := p.MoodMapping.Dimensions[DimEnergy]; got.Min != 3 || got.Max != 7 {
		t.Errorf("mood mapping mutated: %+v", got)
	}
	if len(p.MoodMapping.AntiTags) != 1 {
		t.Errorf("anti-tags mutated: %v", p.MoodMapping.AntiTags)
	}
}

func TestRecommend_RecencyGateBehindFlag(t *testing.T) {
	old := testCandidate()
	old.Year = 2004
	p := testProfile()
	p.RecencyGate = true

	t.Run("flag off ignores the gate", func(t *testing.T) {
		engine := newTestEngine(t, nil)
		result := engine.Recommend(p, []Candidate{old}, TimeEvening)
		if result.Movie == nil {
			t.Errorf("flag off: stop %s, want movie", result.Stop)
		}
	})

	t.Run("flag on rejects then level 2 drops the gate", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Flags.NewUserRecencyGate = true
		engine := newTestEngine(t, cfg)
		result := engine.Recommend(p, []Candidate{old}, TimeEvening)
		if result.Movie == nil {
			t.Fatalf("stop %s, want movie at level 2", result.Stop)
		}
		if result.Level != LevelRelaxedRuntime {
			t.Errorf("level = %s, want relaxed_runtime", result.Level)
		}
	})
}

func TestRecommendMany(t *testing.T) {
	engine := newTestEngine(t, nil)

	catalog := make([]Candidate, 0, 6)
	genres := [][]string{{"drama"}, {"drama"}, {"comedy"}, {"thriller"}, {"romance"}, {"drama", "comedy"}}
	for i, g := range genres {
		c := testCandidate()
		c.ID = string(rune('a' + i))
		c.Genres = g
		catalog = append(catalog, c)
	}

	picks := engine.RecommendMany(testProfile(), catalog, TimeEvening, 3)

	if len(picks) != 3 {
		t.Fatalf("len(picks) = %d, want 3", len(picks))
	}
	seen := make(map[string]struct{})
	for _, pick := range picks {
		if _, dup := seen[pick.Candidate.ID]; dup {
			t.Errorf("duplicate pick %q", pick.Candidate.ID)
		}
		seen[pick.Candidate.ID] = struct{}{}
	}
}

func TestRecommendMany_CascadesWhenScarce(t *testing.T) {
	engine := newTestEngine(t, nil)

	// Only one candidate matches the raw intent tags; two more join via
	// the family expansion.
	direct := testCandidate()
	direct.ID = "direct"
	family1 := testCandidate()
	family1.ID = "family1"
	family1.Tags = []Tag{TagUplifting}
	family2 := testCandidate()
	family2.ID = "family2"
	family2.Tags = []Tag{TagCalm}

	picks := engine.RecommendMany(testProfile(), []Candidate{direct, family1, family2}, TimeEvening, 3)

	if len(picks) != 3 {
		t.Fatalf("len(picks) = %d, want 3 via cascade", len(picks))
	}
}

func TestRecommendMany_Bounds(t *testing.T) {
	engine := newTestEngine(t, nil)
	catalog := []Candidate{testCandidate()}

	if picks := engine.RecommendMany(testProfile(), catalog, TimeEvening, 0); picks != nil {
		t.Errorf("count 0 picks = %v, want nil", picks)
	}

	picks := engine.RecommendMany(testProfile(), catalog, TimeEvening, 50)
	if len(picks) > engine.config.MaxMultiPick {
		t.Errorf("len(picks) = %d, want <= %d", len(picks), engine.config.MaxMultiPick)
	}
}

func TestFindReplacement(t *testing.T) {
	engine := newTestEngine(t, nil)

	rejected := testCandidate()
	rejected.ID = "rejected"
	rejected.Genres = []string{"horror"}
	rejected.Tags = []Tag{TagDark, TagFeelGood}

	similar := testCandidate()
	similar.ID = "similar"
	similar.Genres = []string{"horror"}
	similar.Tags = []Tag{TagDark, TagFeelGood}

	different := testCandidate()
	different.ID = "different"
	different.Genres = []string{"comedy"}
	different.Tags = []Tag{TagFeelGood}

	p := testProfile()
	catalog := []Candidate{rejected, similar, different}

	t.Run("excludes rejected and current picks", func(t *testing.T) {
		pick := engine.FindReplacement(p, catalog, TimeEvening, rejected, RejectNotInterested, []Candidate{similar})
		if pick == nil {
			t.Fatal("FindReplacement() = nil, want a pick")
		}
		if pick.Candidate.ID != "different" {
			t.Errorf("pick = %s, want different", pick.Candidate.ID)
		}
	})

	t.Run("nil when nothing remains", func(t *testing.T) {
		pick := engine.FindReplacement(p, catalog, TimeEvening, rejected, RejectNotInterested, []Candidate{similar, different})
		if pick != nil {
			t.Errorf("pick = %s, want nil", pick.Candidate.ID)
		}
	})
}

func TestRecommend_DeterministicForSeed(t *testing.T) {
	catalog := make([]Candidate, 0, 12)
	for i := 0; i < 12; i++ {
		c := testCandidate()
		c.ID = string(rune('a' + i))
		c.CompositeScore = 80 + float64(i)
		catalog = append(catalog, c)
	}

	run := func() []string {
		cfg := DefaultConfig()
		cfg.Seed = 99
		engine := newTestEngine(t, cfg)
		ids := make([]string, 0, 5)
		for i := 0; i < 5; i++ {
			result := engine.Recommend(testProfile(), catalog, TimeEvening)
			if result.Movie == nil {
				t.Fatalf("run %d: stop %s", i, result.Stop)
			}
			ids = append(ids, result.Movie.Candidate.ID)
		}
		return ids
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("draw %d: %s != %s for identical seeds", i, first[i], second[i])
		}
	}
}
