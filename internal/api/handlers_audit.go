// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package api

import (
	"net/http"
	"strconv"

	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/authz"
)

// ListAuditEvents handles GET /api/v1/audit. Admin only.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}
	if err := h.store.Policy().AuthorizeRole(subject, subject.Role, authz.ActionReadAudit); err != nil {
		respondDomainError(w, r, err)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	events, err := h.trail.List(r.Context(), limit)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, events)
}
