// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package store

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mwhite-dev/reelpick/internal/recommend"
)

const auditPrefix = "audit:"

// auditTTL bounds how long fallback audit records are kept.
const auditTTL = 30 * 24 * time.Hour

// AuditLog persists fallback audit records. It implements
// recommend.AuditSink; failures are logged and swallowed because auditing
// must never affect a recommendation.
type AuditLog struct {
	store *Store
}

// NewAuditLog creates an audit log on top of the store.
func NewAuditLog(s *Store) *AuditLog {
	return &AuditLog{store: s}
}

// RecordFallback appends one fallback audit record.
func (a *AuditLog) RecordFallback(rec recommend.FallbackAuditRecord) {
	key := fmt.Sprintf("%s%d:%s", auditPrefix, rec.Timestamp.UnixNano(), uuid.New().String()[:8])

	err := a.store.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		entry := badger.NewEntry([]byte(key), data).WithTTL(auditTTL)
		return txn.SetEntry(entry)
	})
	if err != nil {
		a.store.logger.Warn().Err(err).Msg("audit record dropped")
	}
}

// RecentFallbacks returns up to limit audit records, newest first.
func (a *AuditLog) RecentFallbacks(limit int) ([]recommend.FallbackAuditRecord, error) {
	if limit < 1 {
		return nil, nil
	}

	records := make([]recommend.FallbackAuditRecord, 0, limit)
	err := a.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(auditPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts just past the prefix range.
		seek := append([]byte(auditPrefix), 0xff)
		for it.Seek(seek); it.Valid() && len(records) < limit; it.Next() {
			var rec recommend.FallbackAuditRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	return records, nil
}
