// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package audit

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func newTestTrail(t *testing.T) *Trail {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("badger.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTrail(db)
}

func TestTrailRecordAndList(t *testing.T) {
	trail := newTestTrail(t)
	ctx := context.Background()

	trail.Record(ctx, EventRoleAssigned, "admin_1", "user_7", map[string]string{"role": "asha"})
	trail.Record(ctx, EventRecordRegistered, "asha_1", "rec_1", nil)
	trail.Record(ctx, EventWriteDenied, "cit_1", "record", map[string]string{"action": "record:create"})

	events, err := trail.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}

	// Newest first.
	if events[0].Type != EventWriteDenied {
		t.Errorf("events[0].Type = %q, want write denied", events[0].Type)
	}
	if events[2].Type != EventRoleAssigned {
		t.Errorf("events[2].Type = %q, want role assigned", events[2].Type)
	}
	if events[2].Details["role"] != "asha" {
		t.Errorf("Details = %v, want role asha", events[2].Details)
	}
	for _, e := range events {
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Errorf("event %+v missing id or timestamp", e)
		}
	}
}

func TestTrailListLimit(t *testing.T) {
	trail := newTestTrail(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		trail.Record(ctx, EventRecordRegistered, "asha_1", "rec", nil)
	}
	events, err := trail.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("len(events) = %d, want 2", len(events))
	}
}
