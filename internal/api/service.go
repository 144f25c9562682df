// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwhite-dev/reelpick/internal/catalog"
	"github.com/mwhite-dev/reelpick/internal/config"
	"github.com/mwhite-dev/reelpick/internal/feedback"
	"github.com/mwhite-dev/reelpick/internal/metrics"
	"github.com/mwhite-dev/reelpick/internal/recommend"
	"github.com/mwhite-dev/reelpick/internal/store"
)

// newUserFeedbackThreshold is the feedback-event count below which a user
// is treated as new for the recency gate.
const newUserFeedbackThreshold = 5

// Service wires the engine to its catalog, learned state, mood library,
// and feedback pipeline.
type Service struct {
	engine   *recommend.Engine
	catalog  *catalog.Manager
	store    *store.Store
	moods    *config.MoodLibrary
	feedback *feedback.Pipeline
	logger   zerolog.Logger

	// now is the clock, swappable in tests.
	now func() time.Time
}

// NewService assembles the recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(
	engine *recommend.Engine,
	cat *catalog.Manager,
	st *store.Store,
	moods *config.MoodLibrary,
	fb *feedback.Pipeline,
	logger zerolog.Logger,
) *Service {
	return &Service{
		engine:   engine,
		catalog:  cat,
		store:    st,
		moods:    moods,
		feedback: fb,
		logger:   logger.With().Str("component", "api").Logger(),
		now:      time.Now,
	}
}

// buildProfile turns a request into an engine profile, hydrated with the
// user's learned state and the mood library mapping.
func (s *Service) buildProfile(req *RecommendRequest) (recommend.Profile, error) {
	p := recommend.Profile{
		UserID:             req.UserID,
		PreferredLanguages: req.Languages,
		Platforms:          req.Platforms,
		RuntimeWindow:      recommend.RuntimeWindow{Min: req.RuntimeMin, Max: req.RuntimeMax},
		Mood:               req.Mood,
		Style:              recommend.RecommendationStyle(req.Style),
		RequiresSeries:     req.SeriesOnly,
	}
	if p.Style == "" {
		p.Style = recommend.StyleBalanced
	}
	for _, t := range req.IntentTags {
		p.IntentTags = append(p.IntentTags, recommend.Tag(t))
	}

	state, err := s.store.UserState(req.UserID)
	if err != nil {
		return p, fmt.Errorf("load learned state: %w", err)
	}
	state.Hydrate(&p)

	// Users with little feedback history get the recency gate; whether it
	// actually applies is still controlled by the engine's feature flag.
	p.RecencyGate = state.FeedbackCount < newUserFeedbackThreshold

	if len(req.ExcludeIDs) > 0 {
		p.RejectedTonight = make(map[string]struct{}, len(req.ExcludeIDs))
		for _, id := range req.ExcludeIDs {
			p.RejectedTonight[id] = struct{}{}
		}
	}

	p.MoodMapping = s.moods.Mapping(req.Mood)
	return p, nil
}

// timeOfDay resolves the request's time of day, falling back to the clock.
func (s *Service) timeOfDay(req *RecommendRequest) recommend.TimeOfDay {
	if req.TimeOfDay != "" {
		return recommend.TimeOfDay(req.TimeOfDay)
	}
	switch h := s.now().Hour(); {
	case h < 6:
		return recommend.TimeLateNight
	case h < 12:
		return recommend.TimeMorning
	case h < 18:
		return recommend.TimeAfternoon
	case h < 23:
		return recommend.TimeEvening
	default:
		return recommend.TimeLateNight
	}
}

// Recommend produces one pick.
func (s *Service) Recommend(req *RecommendRequest) (*RecommendResponse, error) {
	p, err := s.buildProfile(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := s.engine.Recommend(p, s.catalog.Movies(), s.timeOfDay(req))
	metrics.RecordRecommendation(result.Level.String(), time.Since(start))

	resp := &RecommendResponse{FallbackLevel: result.Level.String()}
	if result.Movie != nil {
		resp.Movie = toMovie(result.Movie)
		return resp, nil
	}

	metrics.RecordStopCondition(string(result.Stop))
	resp.Stop = string(result.Stop)
	resp.StopMessage = result.Stop.ShortMessage()
	resp.StopDetail = result.Stop.LongMessage()
	return resp, nil
}

// RecommendBatch produces up to req.Count diverse picks.
func (s *Service) RecommendBatch(req *BatchRequest) (*BatchResponse, error) {
	p, err := s.buildProfile(&req.RecommendRequest)
	if err != nil {
		return nil, err
	}

	tod := s.timeOfDay(&req.RecommendRequest)
	picks := s.engine.RecommendMany(p, s.catalog.Movies(), tod, req.Count)

	resp := &BatchResponse{Movies: make([]Movie, 0, len(picks))}
	for i := range picks {
		resp.Movies = append(resp.Movies, *toMovie(&picks[i]))
	}
	if len(picks) == 0 {
		stop := s.engine.DiagnoseStop(p, s.catalog.Movies(), tod)
		metrics.RecordStopCondition(string(stop))
		resp.Stop = string(stop)
		resp.StopMessage = stop.ShortMessage()
	}
	return resp, nil
}

// Replacement produces a substitute for a rejected pick.
func (s *Service) Replacement(req *ReplacementRequest) (*RecommendResponse, error) {
	p, err := s.buildProfile(&req.RecommendRequest)
	if err != nil {
		return nil, err
	}

	movies := s.catalog.Movies()
	rejected, ok := findMovie(movies, req.RejectedID)
	if !ok {
		return nil, fmt.Errorf("rejected title %q not in catalog", req.RejectedID)
	}

	var current []recommend.Candidate
	for _, id := range req.CurrentIDs {
		if c, ok := findMovie(movies, id); ok {
			current = append(current, c)
		}
	}

	pick := s.engine.FindReplacement(p, movies, s.timeOfDay(&req.RecommendRequest), rejected, recommend.RejectionReason(req.Reason), current)

	resp := &RecommendResponse{FallbackLevel: recommend.LevelNone.String()}
	if pick != nil {
		resp.Movie = toMovie(pick)
		return resp, nil
	}

	stop := s.engine.DiagnoseStop(p, movies, s.timeOfDay(&req.RecommendRequest))
	resp.Stop = string(stop)
	resp.StopMessage = stop.ShortMessage()
	resp.StopDetail = stop.LongMessage()
	return resp, nil
}

// Feedback publishes one feedback event into the learner pipeline.
func (s *Service) Feedback(ctx context.Context, req *FeedbackRequest) error {
	event := feedback.Event{
		UserID:          req.UserID,
		MovieID:         req.MovieID,
		Action:          recommend.ActionKind(req.Action),
		Platform:        req.Platform,
		RejectionReason: recommend.RejectionReason(req.Reason),
		OccurredAt:      s.now(),
	}
	for _, t := range req.Tags {
		event.Tags = append(event.Tags, recommend.Tag(t))
	}

	// Tags omitted by the client are looked up from the catalog so the
	// learner always sees the title's taxonomy.
	if len(event.Tags) == 0 {
		if c, ok := findMovie(s.catalog.Movies(), req.MovieID); ok {
			event.Tags = c.Tags
		}
	}

	return s.feedback.Publish(ctx, event)
}

func findMovie(movies []recommend.Candidate, id string) (recommend.Candidate, bool) {
	for i := range movies {
		if movies[i].ID == id {
			return movies[i], true
		}
	}
	return recommend.Candidate{}, false
}
