// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status field values:
//   - "success": see Data
//   - "error": see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the structured error payload.
//
// Error codes map the denial taxonomy one to one so clients can pick the
// right recovery UX:
//   - UNAUTHENTICATED: no caller identity; prompt sign-in
//   - ROLE_INSUFFICIENT: role lacks the base permission; offer the
//     role-verification fallback
//   - NOT_OWNER: ownership failure; a role fix will not help
//   - NOT_FOUND: target record does not exist
//   - VALIDATION_ERROR: malformed input, nothing persisted
//   - UPSTREAM_ERROR: identity directory or storage failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
