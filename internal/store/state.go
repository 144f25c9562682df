// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package store

import (
	"time"

	"github.com/mwhite-dev/reelpick/internal/recommend"
)

// UserState is everything the system has learned about one user. It is
// the persisted counterpart of the learned fields on an engine profile.
type UserState struct {
	UserID string `json:"user_id"`

	// TagWeights are learned per-tag multipliers, default 1.0.
	TagWeights map[recommend.Tag]float64 `json:"tag_weights,omitempty"`

	// PlatformBias counts accept/reject feedback per platform.
	PlatformBias map[string]recommend.PlatformStats `json:"platform_bias,omitempty"`

	// Dimensional counts rejections by reason.
	Dimensional recommend.DimensionalLearning `json:"dimensional"`

	// Seen holds IDs of titles the user completed or is watching.
	Seen map[string]struct{} `json:"seen,omitempty"`

	// Abandoned holds IDs the user started and gave up on.
	Abandoned map[string]struct{} `json:"abandoned,omitempty"`

	// FeedbackCount is the total number of feedback events applied.
	FeedbackCount int `json:"feedback_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserState returns a fresh zero state for a user.
func NewUserState(userID string) *UserState {
	return &UserState{UserID: userID}
}

// ApplyAction folds one feedback action over the learned tag weights and
// exclusion sets.
func (s *UserState) ApplyAction(movieID string, tags []recommend.Tag, action recommend.ActionKind) {
	s.TagWeights = recommend.UpdateTagWeights(s.TagWeights, tags, action)
	s.FeedbackCount++

	switch action {
	case recommend.ActionCompleted, recommend.ActionWatchNow:
		if s.Seen == nil {
			s.Seen = make(map[string]struct{})
		}
		s.Seen[movieID] = struct{}{}
	case recommend.ActionAbandoned:
		if s.Abandoned == nil {
			s.Abandoned = make(map[string]struct{})
		}
		s.Abandoned[movieID] = struct{}{}
	}
}

// ApplyPlatformFeedback folds one accept/reject signal for a platform.
func (s *UserState) ApplyPlatformFeedback(platform string, accepted bool) {
	if platform == "" {
		return
	}
	s.PlatformBias = recommend.ApplyPlatformFeedback(s.PlatformBias, platform, accepted)
}

// ApplyRejection folds one rejection reason into the dimensional counters.
func (s *UserState) ApplyRejection(reason recommend.RejectionReason) {
	s.Dimensional = recommend.ApplyDimensionalRejection(s.Dimensional, reason)
}

// Hydrate copies the learned state onto an engine profile.
func (s *UserState) Hydrate(p *recommend.Profile) {
	p.TagWeights = s.TagWeights
	p.PlatformBias = s.PlatformBias
	p.Dimensional = s.Dimensional
	p.Seen = s.Seen
	p.Abandoned = s.Abandoned
}
