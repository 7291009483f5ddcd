// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package records

import (
	"time"

	"github.com/gramalert/gramalert/internal/models"
)

// Register applies the draft to registered transition in place and
// reports whether the record changed. Registered records stay
// registered; there is no way back to draft.
func Register(record *models.DiseaseRecord, now time.Time) bool {
	if record.Status == models.StatusRegistered {
		return false
	}
	record.Status = models.StatusRegistered
	record.UpdatedAt = &now
	return true
}
