// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gramalert/gramalert/internal/audit"
	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/authz"
	"github.com/gramalert/gramalert/internal/identity"
	"github.com/gramalert/gramalert/internal/logging"
	"github.com/gramalert/gramalert/internal/records"
)

// withRoleFallback runs a store write with the session claim, and on a
// role denial re-derives the caller's role from the directory and
// retries once. This covers the promoted-but-not-resigned-in case
// without ever trusting a client-supplied role.
func (h *Handler) withRoleFallback(r *http.Request, subject *auth.Subject, op func(verified *identity.Verification) (interface{}, error)) (interface{}, error) {
	out, err := op(nil)
	var denied *authz.RoleDeniedError
	if err == nil || !errors.As(err, &denied) || h.verifier == nil {
		return out, err
	}

	verified, verr := h.verifier.Verify(r.Context(), subject.ID)
	if verr != nil {
		// Directory unreachable: the cached-claim denial stands.
		logging.Warn().Err(verr).Str("user_id", subject.ID).Msg("Role verification unavailable, denial stands")
		return out, err
	}
	if verified.Role == subject.Role {
		h.trail.Record(r.Context(), audit.EventWriteDenied, subject.ID, denied.Action.Object, map[string]string{
			"action": denied.Action.String(),
			"role":   string(denied.Role),
		})
		return out, err
	}

	recordVerificationFallback()
	return op(verified)
}

// CreateReport handles POST /api/v1/reports.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	var input records.CreateReportInput
	if err := decodeBody(r, &input); err != nil {
		respondDomainError(w, r, err)
		return
	}

	out, err := h.withRoleFallback(r, subject, func(verified *identity.Verification) (interface{}, error) {
		return h.store.CreateReport(r.Context(), subject, input, verified)
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, out)
}

// VillageSummary handles GET /api/v1/villages/{village}/summary.
func (h *Handler) VillageSummary(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	village := chi.URLParam(r, "village")
	summary, err := h.store.GetVillageSummary(r.Context(), subject, village)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, summary)
}

// CreateRecord handles POST /api/v1/records.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	var input records.CreateRecordInput
	if err := decodeBody(r, &input); err != nil {
		respondDomainError(w, r, err)
		return
	}

	out, err := h.withRoleFallback(r, subject, func(verified *identity.Verification) (interface{}, error) {
		return h.store.CreateDraftRecord(r.Context(), subject, input, verified)
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, out)
}

// ListOwnRecords handles GET /api/v1/records.
func (h *Handler) ListOwnRecords(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	list, err := h.store.ListOwnRecords(r.Context(), subject)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, list)
}

// ListRegisteredRecords handles GET /api/v1/records/registered.
func (h *Handler) ListRegisteredRecords(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	list, err := h.store.ListRegisteredRecords(r.Context(), subject)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, list)
}

// UpdateRecord handles PUT /api/v1/records/{id}.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	id := chi.URLParam(r, "id")
	var input records.UpdateRecordInput
	if err := decodeBody(r, &input); err != nil {
		respondDomainError(w, r, err)
		return
	}

	out, err := h.withRoleFallback(r, subject, func(verified *identity.Verification) (interface{}, error) {
		return h.store.UpdateRecord(r.Context(), subject, id, input, verified)
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, out)
}

// RegisterRecord handles POST /api/v1/records/{id}/register.
func (h *Handler) RegisterRecord(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	id := chi.URLParam(r, "id")
	out, err := h.withRoleFallback(r, subject, func(verified *identity.Verification) (interface{}, error) {
		return h.store.RegisterRecord(r.Context(), subject, id, verified)
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.trail.Record(r.Context(), audit.EventRecordRegistered, subject.ID, id, nil)
	respondSuccess(w, http.StatusOK, out)
}
