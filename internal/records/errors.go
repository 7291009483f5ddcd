// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package records

import "errors"

// ErrRecordNotFound is returned when the requested disease record does
// not exist.
var ErrRecordNotFound = errors.New("record not found")
