// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package store persists per-user learned state in Badger.
//
// Keys are namespaced by prefix:
//
//	user:<id>    one JSON record of learned taste state per user
//	audit:<ts>   fallback audit records, kept with a TTL
//
// All reads and writes go through serializable Badger transactions, so
// concurrent feedback events against the same user cannot lose updates.
package store

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mwhite-dev/reelpick/internal/metrics"
)

const userPrefix = "user:"

// Options configures the store.
type Options struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without disk persistence. Testing only.
	InMemory bool

	// GCInterval is the value-log garbage collection cadence for Serve.
	GCInterval time.Duration
}

// Store is the learned-state database.
type Store struct {
	db         *badger.DB
	gcInterval time.Duration
	logger     zerolog.Logger
}

// Open opens the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", opts.Path, err)
	}

	return &Store{
		db:         db,
		gcInterval: opts.GCInterval,
		logger:     logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

func userKey(userID string) []byte {
	return []byte(userPrefix + userID)
}

// UserState returns the learned state for a user. Unknown users get a
// fresh zero state, never an error.
func (s *Store) UserState(userID string) (*UserState, error) {
	start := time.Now()
	state := NewUserState(userID)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, state)
		})
	})
	metrics.RecordStoreOperation("get", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load user state %s: %w", userID, err)
	}
	return state, nil
}

// PutUserState stores the full learned state for a user.
func (s *Store) PutUserState(state *UserState) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		return writeUserState(txn, state)
	})
	metrics.RecordStoreOperation("put", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("store user state %s: %w", state.UserID, err)
	}
	return nil
}

// UpdateUserState applies fn to the user's state inside one transaction.
// fn sees the current state (zero state for unknown users) and its changes
// are persisted atomically.
func (s *Store) UpdateUserState(userID string, fn func(*UserState)) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		state := NewUserState(userID)

		item, err := txn.Get(userKey(userID))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// First feedback for this user.
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, state)
			}); err != nil {
				return err
			}
		}

		fn(state)
		return writeUserState(txn, state)
	})
	metrics.RecordStoreOperation("update", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("update user state %s: %w", userID, err)
	}
	return nil
}

// DeleteUserState removes a user's learned state.
func (s *Store) DeleteUserState(userID string) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(userKey(userID))
	})
	metrics.RecordStoreOperation("delete", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete user state %s: %w", userID, err)
	}
	return nil
}

func writeUserState(txn *badger.Txn, state *UserState) error {
	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return txn.Set(userKey(state.UserID), data)
}
