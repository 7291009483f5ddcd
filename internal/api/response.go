// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package api provides the HTTP surface: Chi routing, the standardized
// response envelope, and the mapping from domain errors to status codes.
package api

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/gramalert/gramalert/internal/authz"
	"github.com/gramalert/gramalert/internal/identity"
	"github.com/gramalert/gramalert/internal/logging"
	"github.com/gramalert/gramalert/internal/models"
	"github.com/gramalert/gramalert/internal/records"
	"github.com/gramalert/gramalert/internal/validation"
)

// Error codes returned in the APIError payload. Each denial class maps
// to exactly one code so clients can pick the right recovery UX.
const (
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeRoleInsufficient = "ROLE_INSUFFICIENT"
	ErrCodeNotOwner         = "NOT_OWNER"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, resp *models.APIResponse) {
	resp.Metadata = models.Metadata{Timestamp: time.Now().UTC()}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondSuccess writes the success envelope around data.
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, &models.APIResponse{Status: "success", Data: data})
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeJSON(w, status, &models.APIResponse{
		Status: "error",
		Error:  &models.APIError{Code: code, Message: message, Details: details},
	})
}

// respondDomainError maps a domain error to its status code and error
// code. Unknown errors become a 500 with no internals leaked.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Errors
	var denied *authz.RoleDeniedError

	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Not authenticated", nil)
	case errors.As(err, &denied):
		respondError(w, http.StatusForbidden, ErrCodeRoleInsufficient, denied.Error(), nil)
	case errors.Is(err, authz.ErrNotOwner):
		respondError(w, http.StatusForbidden, ErrCodeNotOwner, "You can only modify your own records", nil)
	case errors.Is(err, records.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Record not found", nil)
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, ErrCodeValidation, verr.Error(), verr.Details())
	case errors.Is(err, identity.ErrVerificationUnavailable),
		errors.Is(err, identity.ErrDirectoryUnavailable):
		respondError(w, http.StatusBadGateway, ErrCodeUpstream, "Identity service unavailable", nil)
	default:
		logging.Error().Err(err).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg("Unhandled error in request")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return validation.NewFieldErrors("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.NewFieldErrors("body", "request body is not valid JSON")
	}
	return nil
}
