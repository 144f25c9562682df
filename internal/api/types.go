// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package api

import (
	"github.com/mwhite-dev/reelpick/internal/recommend"
)

// RecommendRequest asks for one pick.
type RecommendRequest struct {
	UserID string `json:"user_id" validate:"required"`

	// Languages and Platforms filter the catalog; empty means any.
	Languages []string `json:"languages"`
	Platforms []string `json:"platforms"`

	// RuntimeMin/RuntimeMax bound the runtime in minutes; both zero
	// means unconstrained.
	RuntimeMin int `json:"runtime_min" validate:"min=0"`
	RuntimeMax int `json:"runtime_max" validate:"min=0,gtefield=RuntimeMin"`

	Mood       string   `json:"mood"`
	IntentTags []string `json:"intent_tags"`

	TimeOfDay string `json:"time_of_day" validate:"omitempty,oneof=morning afternoon evening late_night"`
	Style     string `json:"style" validate:"omitempty,oneof=safe balanced adventurous"`

	SeriesOnly bool `json:"series_only"`

	// ExcludeIDs are titles rejected earlier in this session.
	ExcludeIDs []string `json:"exclude_ids"`
}

// BatchRequest asks for several diverse picks.
type BatchRequest struct {
	RecommendRequest
	Count int `json:"count" validate:"min=1"`
}

// ReplacementRequest asks for a substitute after a rejection.
type ReplacementRequest struct {
	RecommendRequest
	RejectedID string `json:"rejected_id" validate:"required"`
	Reason     string `json:"reason" validate:"omitempty,oneof=too_long not_in_mood not_interested already_seen"`

	// CurrentIDs are picks still on screen; the replacement steers away
	// from their genres.
	CurrentIDs []string `json:"current_ids"`
}

// FeedbackRequest reports one user interaction.
type FeedbackRequest struct {
	UserID   string   `json:"user_id" validate:"required"`
	MovieID  string   `json:"movie_id" validate:"required"`
	Action   string   `json:"action" validate:"required,oneof=watch_now completed not_tonight abandoned show_me_another implicit_skip"`
	Tags     []string `json:"tags"`
	Platform string   `json:"platform"`
	Reason   string   `json:"reason" validate:"omitempty,oneof=too_long not_in_mood not_interested already_seen"`
}

// Movie is the wire form of a recommended title.
type Movie struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	RuntimeMinutes int             `json:"runtime_minutes"`
	Language       string          `json:"language"`
	Platforms      []string        `json:"platforms"`
	Genres         []string        `json:"genres"`
	Tags           []recommend.Tag `json:"tags"`
	GoodScore      float64         `json:"goodscore"`
	Year           int             `json:"year"`
	Score          float64         `json:"score"`
}

// RecommendResponse is the outcome of a single-pick request. Movie and
// Stop are mutually exclusive.
type RecommendResponse struct {
	Movie         *Movie `json:"movie,omitempty"`
	FallbackLevel string `json:"fallback_level"`

	Stop        string `json:"stop,omitempty"`
	StopMessage string `json:"stop_message,omitempty"`
	StopDetail  string `json:"stop_detail,omitempty"`
}

// BatchResponse is the outcome of a batch request.
type BatchResponse struct {
	Movies []Movie `json:"movies"`

	Stop        string `json:"stop,omitempty"`
	StopMessage string `json:"stop_message,omitempty"`
}

// ErrorResponse is the wire form of any API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toMovie(sc *recommend.ScoredCandidate) *Movie {
	if sc == nil {
		return nil
	}
	return &Movie{
		ID:             sc.Candidate.ID,
		Title:          sc.Candidate.Title,
		RuntimeMinutes: sc.Candidate.RuntimeMinutes,
		Language:       sc.Candidate.Language,
		Platforms:      sc.Candidate.Platforms,
		Genres:         sc.Candidate.Genres,
		Tags:           sc.Candidate.Tags,
		GoodScore:      sc.Candidate.GoodScore,
		Year:           sc.Candidate.Year,
		Score:          sc.Score,
	}
}
