// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package api

import "net/http"

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "healthy"})
}
