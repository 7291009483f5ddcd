// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package records

import (
	"testing"
	"time"

	"github.com/gramalert/gramalert/internal/models"
)

func TestRegisterTransition(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("draft becomes registered", func(t *testing.T) {
		record := &models.DiseaseRecord{Status: models.StatusDraft}
		if !Register(record, now) {
			t.Fatal("Register returned false for a draft")
		}
		if record.Status != models.StatusRegistered {
			t.Errorf("Status = %q, want registered", record.Status)
		}
		if record.UpdatedAt == nil || !record.UpdatedAt.Equal(now) {
			t.Errorf("UpdatedAt = %v, want %v", record.UpdatedAt, now)
		}
	})

	t.Run("registered stays untouched", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		record := &models.DiseaseRecord{Status: models.StatusRegistered, UpdatedAt: &earlier}
		if Register(record, now) {
			t.Fatal("Register returned true for an already registered record")
		}
		if !record.UpdatedAt.Equal(earlier) {
			t.Errorf("UpdatedAt = %v, want %v", record.UpdatedAt, earlier)
		}
	})
}
