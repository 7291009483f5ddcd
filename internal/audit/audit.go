// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package audit records security-relevant events for later review:
// role assignments, record registrations, and denied write attempts.
// Events are stored in Badger under time-ordered keys; writing is best
// effort and never fails the operation being audited.
package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gramalert/gramalert/internal/logging"
)

// EventType categorizes audit events.
type EventType string

const (
	EventRoleAssigned     EventType = "user.role_assigned"
	EventRecordRegistered EventType = "record.registered"
	EventWriteDenied      EventType = "authz.write_denied"
)

// Event is one audit trail entry.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	// Actor is the subject that performed the action.
	Actor string `json:"actor"`

	// Target is what was acted on: a subject for role events, a record
	// ID for record events.
	Target string `json:"target"`

	Details map[string]string `json:"details,omitempty"`
}

const keyPrefix = "audit:"

// Trail is a Badger-backed audit event store.
type Trail struct {
	db *badger.DB
}

// NewTrail creates an audit trail over the given database.
func NewTrail(db *badger.DB) *Trail {
	return &Trail{db: db}
}

// Record writes one event. Failures are logged, not returned: an audit
// outage must not block role changes or registrations.
func (t *Trail) Record(ctx context.Context, eventType EventType, actor, target string, details map[string]string) {
	event := &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Actor:     actor,
		Target:    target,
		Details:   details,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Str("type", string(eventType)).Msg("Failed to encode audit event")
		return
	}

	// Nanosecond timestamp prefix keeps keys in event order; the uuid
	// suffix breaks same-nanosecond collisions.
	key := keyPrefix + strconv.FormatInt(event.Timestamp.UnixNano(), 10) + ":" + event.ID
	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		logging.Error().Err(err).Str("type", string(eventType)).Msg("Failed to store audit event")
	}
}

// List returns up to limit events, newest first.
func (t *Trail) List(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 100
	}

	var events []*Event
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts past the last key in the prefix
		// range; 0xFF sorts after any timestamp digit.
		seek := append([]byte(keyPrefix), 0xFF)
		for it.Seek(seek); it.Valid() && len(events) < limit; it.Next() {
			var event Event
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			}); err != nil {
				return fmt.Errorf("decode audit event: %w", err)
			}
			events = append(events, &event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan audit events: %w", err)
	}
	return events, nil
}
