// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package recommend

import "time"

// Tag is a descriptive tag from the fixed taxonomy (see tags.go).
type Tag string

// ContentType distinguishes movies from series.
type ContentType string

const (
	// ContentMovie is a feature-length movie.
	ContentMovie ContentType = "movie"
	// ContentSeries is an episodic series.
	ContentSeries ContentType = "series"
)

// TimeOfDay coarsely classifies when the recommendation is requested.
// It is injected rather than read from the clock so Validate stays pure.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeLateNight TimeOfDay = "late_night"
)

// RecommendationStyle controls how much risk the quality gate tolerates.
type RecommendationStyle string

const (
	StyleSafe        RecommendationStyle = "safe"
	StyleBalanced    RecommendationStyle = "balanced"
	StyleAdventurous RecommendationStyle = "adventurous"
)

// EmotionalVector holds the eight emotional dimensions of a title, each on a
// 0-10 scale. A nil *EmotionalVector means the title was never measured;
// defaultDimension fills in 5.0 exactly once at the access points.
type EmotionalVector struct {
	Comfort            float64 `json:"comfort"`
	Darkness           float64 `json:"darkness"`
	EmotionalIntensity float64 `json:"emotional_intensity"`
	Energy             float64 `json:"energy"`
	Complexity         float64 `json:"complexity"`
	Rewatchability     float64 `json:"rewatchability"`
	Humour             float64 `json:"humour"`
	MentalStimulation  float64 `json:"mental_stimulation"`
}

// Dimension names an emotional dimension in mood mappings.
type Dimension string

const (
	DimComfort            Dimension = "comfort"
	DimDarkness           Dimension = "darkness"
	DimEmotionalIntensity Dimension = "emotional_intensity"
	DimEnergy             Dimension = "energy"
	DimComplexity         Dimension = "complexity"
	DimRewatchability     Dimension = "rewatchability"
	DimHumour             Dimension = "humour"
	DimMentalStimulation  Dimension = "mental_stimulation"
)

// defaultDimension is the assumed value for unmeasured emotional dimensions.
const defaultDimension = 5.0

// Value returns the named dimension, or the default when the vector is nil.
func (v *EmotionalVector) Value(d Dimension) float64 {
	if v == nil {
		return defaultDimension
	}
	switch d {
	case DimComfort:
		return v.Comfort
	case DimDarkness:
		return v.Darkness
	case DimEmotionalIntensity:
		return v.EmotionalIntensity
	case DimEnergy:
		return v.Energy
	case DimComplexity:
		return v.Complexity
	case DimRewatchability:
		return v.Rewatchability
	case DimHumour:
		return v.Humour
	case DimMentalStimulation:
		return v.MentalStimulation
	default:
		return defaultDimension
	}
}

// Candidate is one title from a catalog snapshot. Candidates are treated as
// immutable; tags are derived once when the snapshot is loaded.
type Candidate struct {
	// ID uniquely identifies the title within the catalog.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// RuntimeMinutes is the runtime in minutes (0 = unknown).
	RuntimeMinutes int `json:"runtime_minutes"`

	// Language is the primary audio language (name or ISO 639-1 code).
	Language string `json:"language"`

	// Platforms lists streaming platforms carrying the title.
	Platforms []string `json:"platforms"`

	// Genres lists genre names.
	Genres []string `json:"genres"`

	// Tags are derived descriptive tags, one per taxonomy category.
	Tags []Tag `json:"tags"`

	// GoodScore is the blended display quality score, either on a 0-10
	// or a 0-100 scale depending on the catalog source.
	GoodScore float64 `json:"goodscore"`

	// CompositeScore is the preferred 0-100 quality score; 0 means absent.
	CompositeScore float64 `json:"composite_score"`

	// VoteCount is the number of ratings behind the scores.
	VoteCount int `json:"vote_count"`

	// Available reports whether the title is currently streamable.
	Available bool `json:"available"`

	// ContentType is movie or series.
	ContentType ContentType `json:"content_type"`

	// Year is the release year.
	Year int `json:"year"`

	// Emotional is the measured emotional-dimension vector, nil if unknown.
	Emotional *EmotionalVector `json:"emotional,omitempty"`
}

// ratingOutOfTen normalizes the quality score to a 0-10 scale.
func (c *Candidate) ratingOutOfTen() float64 {
	if c.CompositeScore > 0 {
		return c.CompositeScore / 10
	}
	if c.GoodScore > 10 {
		return c.GoodScore / 10
	}
	return c.GoodScore
}

// effectiveScore returns the 0-100 quality score used by the threshold gate:
// CompositeScore when present, otherwise GoodScore scaled to 0-100.
func (c *Candidate) effectiveScore() float64 {
	if c.CompositeScore > 0 {
		return c.CompositeScore
	}
	if c.GoodScore <= 10 {
		return c.GoodScore * 10
	}
	return c.GoodScore
}

// HasTag reports whether the candidate carries the given tag.
func (c *Candidate) HasTag(t Tag) bool {
	for _, ct := range c.Tags {
		if ct == t {
			return true
		}
	}
	return false
}

// RuntimeWindow is the acceptable runtime range in minutes.
// The zero value means unconstrained.
type RuntimeWindow struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Normalized returns the window and whether it constrains anything.
// An inverted window (min > max) degrades to unconstrained rather than
// rejecting everything; the caller's builder should never produce one.
func (w RuntimeWindow) Normalized() (RuntimeWindow, bool) {
	if w.Min == 0 && w.Max == 0 {
		return w, false
	}
	if w.Max > 0 && w.Min > w.Max {
		return RuntimeWindow{}, false
	}
	return w, true
}

// PlatformStats counts historical accept/reject feedback for one platform.
type PlatformStats struct {
	Accepts int `json:"accepts"`
	Rejects int `json:"rejects"`
}

// Total returns the number of recorded interactions.
func (s PlatformStats) Total() int { return s.Accepts + s.Rejects }

// DimensionalLearning counts rejections by the reason the user gave.
type DimensionalLearning struct {
	TooLong       int `json:"too_long"`
	NotInMood     int `json:"not_in_mood"`
	NotInterested int `json:"not_interested"`
}

// Total returns the number of recorded rejections.
func (d DimensionalLearning) Total() int {
	return d.TooLong + d.NotInMood + d.NotInterested
}

// TasteProfile is an externally computed affinity signal. Its weight in the
// scorer ramps up with the amount of feedback behind it.
type TasteProfile struct {
	// Affinity is the normalized [0,1] affinity for the candidate.
	Affinity float64 `json:"affinity"`

	// FeedbackCount is the number of feedback events behind the affinity.
	FeedbackCount int `json:"feedback_count"`
}

// DimensionRule bounds one emotional dimension inside a mood mapping.
type DimensionRule struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Ideal  float64 `json:"ideal"`
	Weight float64 `json:"weight"`
}

// MoodMapping is remote per-mood configuration. Version 0 means the mood is
// not configured remotely and the static intent-tag fallback applies.
type MoodMapping struct {
	Version        int                      `json:"version"`
	Dimensions     map[Dimension]DimensionRule `json:"dimensions"`
	CompatibleTags []Tag                    `json:"compatible_tags"`
	AntiTags       []Tag                    `json:"anti_tags"`
}

// Configured reports whether the mapping is usable.
func (m *MoodMapping) Configured() bool {
	return m != nil && m.Version > 0
}

// clone returns a deep copy so the fallback cascade can widen bounds
// without touching the caller's snapshot.
func (m *MoodMapping) clone() *MoodMapping {
	if m == nil {
		return nil
	}
	out := &MoodMapping{
		Version:        m.Version,
		CompatibleTags: append([]Tag(nil), m.CompatibleTags...),
		AntiTags:       append([]Tag(nil), m.AntiTags...),
	}
	if m.Dimensions != nil {
		out.Dimensions = make(map[Dimension]DimensionRule, len(m.Dimensions))
		for d, r := range m.Dimensions {
			out.Dimensions[d] = r
		}
	}
	return out
}

// Profile is the per-call user snapshot. The engine never mutates it; the
// fallback cascade works on copies.
type Profile struct {
	UserID             string
	PreferredLanguages []string
	Platforms          []string
	RuntimeWindow      RuntimeWindow
	Mood               string
	IntentTags         []Tag

	// Exclusion sets by candidate ID.
	Seen            map[string]struct{}
	RejectedTonight map[string]struct{}
	Abandoned       map[string]struct{}

	Style RecommendationStyle

	// TagWeights are learned per-tag multipliers, default 1.0.
	TagWeights map[Tag]float64

	RequiresSeries bool

	// PlatformBias maps platform key to historical accept/reject counts.
	PlatformBias map[string]PlatformStats

	Dimensional DimensionalLearning

	// Taste is the optional external affinity signal.
	Taste *TasteProfile

	// MoodMapping is the optional remote mood configuration.
	MoodMapping *MoodMapping

	// RecencyGate rejects pre-2010 titles when the feature flag is on.
	RecencyGate bool
}

// Excluded reports whether the candidate ID is in any exclusion set.
func (p *Profile) Excluded(id string) bool {
	if _, ok := p.Seen[id]; ok {
		return true
	}
	if _, ok := p.RejectedTonight[id]; ok {
		return true
	}
	_, ok := p.Abandoned[id]
	return ok
}

// TagWeight returns the learned weight for a tag, defaulting to 1.0.
func (p *Profile) TagWeight(t Tag) float64 {
	if w, ok := p.TagWeights[t]; ok {
		return w
	}
	return 1.0
}

// clone returns a copy safe for the fallback cascade to relax. Exclusion
// sets and learned state are shared (read-only by contract); the fields the
// cascade may touch are copied.
func (p *Profile) clone() *Profile {
	out := *p
	out.IntentTags = append([]Tag(nil), p.IntentTags...)
	out.MoodMapping = p.MoodMapping.clone()
	return &out
}

// InvalidReason explains why a candidate failed the validation gate.
type InvalidReason string

const (
	ReasonUnavailable            InvalidReason = "unavailable"
	ReasonLanguageMismatch       InvalidReason = "language_mismatch"
	ReasonPlatformMismatch       InvalidReason = "platform_mismatch"
	ReasonAlreadyInteracted      InvalidReason = "already_interacted"
	ReasonRuntimeOutOfWindow     InvalidReason = "runtime_out_of_window"
	ReasonContentTypeMismatch    InvalidReason = "content_type_mismatch"
	ReasonRecencyGateFailed      InvalidReason = "recency_gate_failed"
	ReasonGoodscoreBelowThreshold InvalidReason = "goodscore_below_threshold"
	ReasonNoMatchingTags         InvalidReason = "no_matching_tags"
)

// ValidationOutcome is the result of running one candidate through the gate.
type ValidationOutcome struct {
	Valid  bool
	Reason InvalidReason
}

func valid() ValidationOutcome                     { return ValidationOutcome{Valid: true} }
func invalid(r InvalidReason) ValidationOutcome    { return ValidationOutcome{Reason: r} }

// ScoredCandidate pairs a candidate with its desirability score.
type ScoredCandidate struct {
	Candidate Candidate
	Score     float64
}

// FallbackLevel is the degree of soft-constraint relaxation that produced a
// result. Levels are strictly ordered.
type FallbackLevel int

const (
	LevelNone FallbackLevel = iota
	LevelRelaxedTags
	LevelRelaxedRuntime
	LevelExhausted
)

// String returns the audit name for the level.
func (l FallbackLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelRelaxedTags:
		return "relaxed_tags"
	case LevelRelaxedRuntime:
		return "relaxed_runtime"
	case LevelExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// FallbackAuditRecord documents a non-zero fallback outcome for the logging
// collaborator. The engine emits it fire-and-forget.
type FallbackAuditRecord struct {
	Level                 FallbackLevel `json:"level"`
	UserID                string        `json:"user_id"`
	ChosenID              string        `json:"chosen_id,omitempty"`
	ChosenGoodScore       float64       `json:"chosen_goodscore,omitempty"`
	Mood                  string        `json:"mood"`
	TimeOfDay             TimeOfDay     `json:"time_of_day"`
	Platforms             []string      `json:"platforms"`
	Languages             []string      `json:"languages"`
	IntentTags            []Tag         `json:"intent_tags"`
	RelaxedIntentTags     []Tag         `json:"relaxed_intent_tags,omitempty"`
	OriginalWindow        RuntimeWindow `json:"original_window"`
	RelaxedWindow         RuntimeWindow `json:"relaxed_window"`
	Threshold             float64       `json:"threshold"`
	PreFallbackCandidates int           `json:"pre_fallback_candidates"`
	Timestamp             time.Time     `json:"timestamp"`
}

// AuditSink receives fallback audit records. Implementations must be safe
// for concurrent use; failures are swallowed by the engine.
type AuditSink interface {
	RecordFallback(rec FallbackAuditRecord)
}

// Result is the outcome of a single-pick recommendation. Movie and Stop are
// mutually exclusive: exactly one is set.
type Result struct {
	// Movie is the chosen candidate with its score, nil when Stop is set.
	Movie *ScoredCandidate

	// Stop is the terminal diagnosis when no candidate survived.
	Stop StopCondition

	// Level is the fallback level that produced the result.
	Level FallbackLevel
}

// ActionKind classifies a user interaction for the tag-weight learner.
type ActionKind string

const (
	ActionCompleted     ActionKind = "completed"
	ActionNotTonight    ActionKind = "not_tonight"
	ActionAbandoned     ActionKind = "abandoned"
	ActionWatchNow      ActionKind = "watch_now"
	ActionShowMeAnother ActionKind = "show_me_another"
	ActionImplicitSkip  ActionKind = "implicit_skip"
)

// RejectionReason classifies why a user rejected a pick. It drives both the
// replacement selector and the dimensional learning counters.
type RejectionReason string

const (
	RejectNotInterested RejectionReason = "not_interested"
	RejectAlreadySeen   RejectionReason = "already_seen"
	RejectTooLong       RejectionReason = "too_long"
	RejectNotInMood     RejectionReason = "not_in_mood"
)
