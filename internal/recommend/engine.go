// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Engine runs the full selection pipeline: gate, score, select, fall back,
// diagnose. It is safe for concurrent use provided each caller owns its
// profile and catalog snapshots.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// audit receives fallback records fire-and-forget.
	audit AuditSink

	// rng is the injected random source for softmax draws.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a selection engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for biased selection draws
	}, nil
}

// SetAuditSink sets the fallback audit sink. A nil sink disables auditing.
func (e *Engine) SetAuditSink(sink AuditSink) {
	e.audit = sink
}

// applyFlags returns a profile copy with flag-gated features disabled when
// their flag is off. The caller's snapshot is untouched.
func (e *Engine) applyFlags(p Profile) Profile {
	if !e.config.Flags.NewUserRecencyGate {
		p.RecencyGate = false
	}
	if !e.config.Flags.TasteEngine {
		p.Taste = nil
	}
	return p
}

// gate validates every catalog entry against the profile and scores the
// survivors. The rejection counts feed debug tracing.
func (e *Engine) gate(catalog []Candidate, p *Profile, tod TimeOfDay) ([]ScoredCandidate, map[InvalidReason]int) {
	scored := make([]ScoredCandidate, 0, len(catalog))
	rejections := make(map[InvalidReason]int)

	for i := range catalog {
		outcome := Validate(catalog[i], *p, tod)
		if !outcome.Valid {
			rejections[outcome.Reason]++
			continue
		}
		scored = append(scored, ScoredCandidate{
			Candidate: catalog[i],
			Score:     Score(catalog[i], *p),
		})
	}

	sortByScore(scored)
	return scored, rejections
}

// Recommend picks one movie for the profile, relaxing soft constraints in
// strict steps when the gate comes back empty. It never returns an error:
// when nothing survives, the result carries a stop condition instead of a
// movie.
func (e *Engine) Recommend(p Profile, catalog []Candidate, tod TimeOfDay) Result {
	p = e.applyFlags(p)
	start := time.Now()

	levelZero, rejections := e.gate(catalog, &p, tod)

	for _, level := range []FallbackLevel{LevelNone, LevelRelaxedTags, LevelRelaxedRuntime} {
		scored := levelZero
		relaxed := &p
		if level != LevelNone {
			relaxed = fallbackProfile(&p, level)
			scored, _ = e.gate(catalog, relaxed, tod)
		}
		if len(scored) == 0 {
			continue
		}

		idx := e.draw(scored)
		pick := scored[idx]

		if level != LevelNone {
			e.emitAudit(e.auditRecord(level, &p, relaxed, &pick, len(levelZero), tod))
		}

		e.logger.Debug().
			Str("user_id", p.UserID).
			Str("movie_id", pick.Candidate.ID).
			Str("level", level.String()).
			Float64("score", pick.Score).
			Int("candidates", len(scored)).
			Dur("elapsed", time.Since(start)).
			Msg("recommendation selected")

		return Result{Movie: &pick, Level: level}
	}

	stop := DiagnoseStop(catalog, p, tod)
	e.emitAudit(e.auditRecord(LevelExhausted, &p, &p, nil, len(levelZero), tod))

	e.logger.Debug().
		Str("user_id", p.UserID).
		Str("stop", string(stop)).
		Interface("rejections", rejections).
		Msg("recommendation exhausted")

	return Result{Stop: stop, Level: LevelExhausted}
}

// RecommendMany picks up to count distinct movies, trading a little score
// for genre diversity. The profile cascade relaxes intent tags and then
// runtime until a level yields enough candidates; language and platform
// are never relaxed.
func (e *Engine) RecommendMany(p Profile, catalog []Candidate, tod TimeOfDay, count int) []ScoredCandidate {
	p = e.applyFlags(p)
	if count < 1 {
		return nil
	}
	if count > e.config.MaxMultiPick {
		count = e.config.MaxMultiPick
	}

	var pool []ScoredCandidate
	for _, level := range multiPickCascade(&p) {
		scored, _ := e.gate(catalog, level, tod)
		pool = scored
		if len(scored) >= count {
			break
		}
	}
	if len(pool) == 0 {
		return nil
	}

	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return selectDiverse(pool, count, e.config.TopK, e.config.Temperature, e.rng)
}

// FindReplacement picks a substitute for a rejected candidate. Depending
// on the rejection reason it contrasts away from the rejected title or
// stays similar to it, and it always steers away from genres already among
// the current picks.
func (e *Engine) FindReplacement(p Profile, catalog []Candidate, tod TimeOfDay, rejected Candidate, reason RejectionReason, currentPicks []Candidate) *ScoredCandidate {
	p = e.applyFlags(p)

	exclude := make(map[string]struct{}, len(currentPicks)+1)
	exclude[rejected.ID] = struct{}{}
	currentGenres := make(map[string]struct{})
	for i := range currentPicks {
		exclude[currentPicks[i].ID] = struct{}{}
		for _, g := range currentPicks[i].Genres {
			currentGenres[g] = struct{}{}
		}
	}

	scored, _ := e.gate(catalog, &p, tod)
	adjusted := make([]ScoredCandidate, 0, len(scored))
	for _, sc := range scored {
		if _, ok := exclude[sc.Candidate.ID]; ok {
			continue
		}
		sc.Score = adjustForReplacement(sc, rejected, reason, currentGenres)
		adjusted = append(adjusted, sc)
	}
	if len(adjusted) == 0 {
		return nil
	}

	sortByScore(adjusted)
	idx := e.draw(adjusted)
	pick := adjusted[idx]
	return &pick
}

// DiagnoseStop exposes the stop-condition diagnoser with engine flags
// applied.
func (e *Engine) DiagnoseStop(p Profile, catalog []Candidate, tod TimeOfDay) StopCondition {
	p = e.applyFlags(p)
	return DiagnoseStop(catalog, p, tod)
}

// draw performs a locked softmax draw over sorted candidates.
func (e *Engine) draw(scored []ScoredCandidate) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return softmaxPick(scored, e.config.TopK, e.config.Temperature, e.rng)
}

// auditRecord assembles the audit record for a non-zero fallback outcome.
func (e *Engine) auditRecord(level FallbackLevel, original, relaxed *Profile, pick *ScoredCandidate, preFallback int, tod TimeOfDay) FallbackAuditRecord {
	rec := FallbackAuditRecord{
		Level:                 level,
		UserID:                original.UserID,
		Mood:                  original.Mood,
		TimeOfDay:             tod,
		Platforms:             original.Platforms,
		Languages:             original.PreferredLanguages,
		IntentTags:            original.IntentTags,
		OriginalWindow:        original.RuntimeWindow,
		RelaxedWindow:         relaxed.RuntimeWindow,
		Threshold:             QualityThreshold(*original, tod, ""),
		PreFallbackCandidates: preFallback,
		Timestamp:             time.Now(),
	}
	if level != LevelExhausted {
		rec.RelaxedIntentTags = relaxed.IntentTags
	}
	if pick != nil {
		rec.ChosenID = pick.Candidate.ID
		rec.ChosenGoodScore = pick.Candidate.effectiveScore()
	}
	return rec
}

// emitAudit delivers an audit record to the sink. A panicking or failing
// sink must never alter the returned recommendation, so everything is
// swallowed here.
func (e *Engine) emitAudit(rec FallbackAuditRecord) {
	if e.audit == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Interface("panic", r).Msg("audit sink panicked")
		}
	}()
	e.audit.RecordFallback(rec)
}
