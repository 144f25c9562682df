// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package feedback is the event pipeline between the API and the learner.
//
// The API publishes feedback events to an in-process Watermill Pub/Sub;
// a router handler folds each event into the user's persisted learned
// state. Publishing is decoupled from learning so a slow store write never
// blocks an API response.
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mwhite-dev/reelpick/internal/metrics"
	"github.com/mwhite-dev/reelpick/internal/recommend"
	"github.com/mwhite-dev/reelpick/internal/store"
)

// TopicFeedback is the feedback event topic.
const TopicFeedback = "feedback.events"

// Event is one user feedback signal.
type Event struct {
	UserID  string                `json:"user_id"`
	MovieID string                `json:"movie_id"`
	Action  recommend.ActionKind  `json:"action"`
	Tags    []recommend.Tag       `json:"tags"`

	// Platform is the platform the title was offered on, if known.
	Platform string `json:"platform,omitempty"`

	// RejectionReason qualifies rejection actions (too_long, not_in_mood,
	// not_interested).
	RejectionReason recommend.RejectionReason `json:"rejection_reason,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// Options tunes the pipeline.
type Options struct {
	// BufferSize is the Pub/Sub channel capacity.
	BufferSize int64

	// CloseTimeout bounds router shutdown.
	CloseTimeout time.Duration
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		BufferSize:   256,
		CloseTimeout: 10 * time.Second,
	}
}

// Pipeline connects the publisher side to the learner handler.
type Pipeline struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	store  *store.Store
	logger zerolog.Logger
}

// NewPipeline builds the pipeline on top of the learned-state store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(opts Options, st *store.Store, logger zerolog.Logger) (*Pipeline, error) {
	componentLogger := logger.With().Str("component", "feedback").Logger()
	wmLogger := newWatermillAdapter(componentLogger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: opts.BufferSize,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: opts.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create feedback router: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
			Logger:          wmLogger,
		}.Middleware,
	)

	p := &Pipeline{
		pubsub: pubsub,
		router: router,
		store:  st,
		logger: componentLogger,
	}

	router.AddNoPublisherHandler(
		"feedback-learner",
		TopicFeedback,
		pubsub,
		p.handle,
	)

	return p, nil
}

// Publish emits one feedback event into the pipeline.
func (p *Pipeline) Publish(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		metrics.RecordFeedbackError("publish")
		return fmt.Errorf("encode feedback event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if err := p.pubsub.Publish(TopicFeedback, msg); err != nil {
		metrics.RecordFeedbackError("publish")
		return fmt.Errorf("publish feedback event: %w", err)
	}
	return nil
}

// Validate checks the event for required fields.
func (e *Event) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("feedback event: user_id is required")
	}
	if e.MovieID == "" {
		return fmt.Errorf("feedback event: movie_id is required")
	}
	if _, ok := knownActions[e.Action]; !ok {
		return fmt.Errorf("feedback event: unknown action %q", e.Action)
	}
	return nil
}

var knownActions = map[recommend.ActionKind]struct{}{
	recommend.ActionCompleted:     {},
	recommend.ActionNotTonight:    {},
	recommend.ActionAbandoned:     {},
	recommend.ActionWatchNow:      {},
	recommend.ActionShowMeAnother: {},
	recommend.ActionImplicitSkip:  {},
}

// handle folds one event into the user's learned state.
func (p *Pipeline) handle(msg *message.Message) error {
	start := time.Now()

	var event Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		metrics.RecordFeedbackError("decode")
		// A payload that cannot decode will never decode; drop it.
		p.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable feedback event")
		return nil
	}
	if err := event.Validate(); err != nil {
		metrics.RecordFeedbackError("decode")
		p.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping invalid feedback event")
		return nil
	}

	err := p.store.UpdateUserState(event.UserID, func(state *store.UserState) {
		state.ApplyAction(event.MovieID, event.Tags, event.Action)
		state.ApplyPlatformFeedback(event.Platform, recommend.IsPositiveAction(event.Action))
		if event.RejectionReason != "" {
			state.ApplyRejection(event.RejectionReason)
		}
	})
	if err != nil {
		metrics.RecordFeedbackError("store")
		// Returning the error triggers the retry middleware.
		return fmt.Errorf("apply feedback for %s: %w", event.UserID, err)
	}

	metrics.RecordFeedbackEvent(string(event.Action), time.Since(start))
	p.logger.Debug().
		Str("user_id", event.UserID).
		Str("movie_id", event.MovieID).
		Str("action", string(event.Action)).
		Msg("feedback applied")
	return nil
}

// Serve runs the router until the context is canceled. It implements
// suture.Service.
func (p *Pipeline) Serve(ctx context.Context) error {
	return p.router.Run(ctx)
}

// Running returns a channel closed once the router is running. Publishing
// before that point would drop events on a non-persistent Pub/Sub.
func (p *Pipeline) Running() <-chan struct{} {
	return p.router.Running()
}

// Close shuts down the router and the Pub/Sub.
func (p *Pipeline) Close() error {
	if err := p.router.Close(); err != nil {
		return fmt.Errorf("close feedback router: %w", err)
	}
	if err := p.pubsub.Close(); err != nil {
		return fmt.Errorf("close feedback pubsub: %w", err)
	}
	return nil
}
