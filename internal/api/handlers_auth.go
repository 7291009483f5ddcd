// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package api

import (
	"errors"
	"net/http"

	"github.com/gramalert/gramalert/internal/audit"
	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/authz"
	"github.com/gramalert/gramalert/internal/config"
	"github.com/gramalert/gramalert/internal/identity"
	"github.com/gramalert/gramalert/internal/logging"
	"github.com/gramalert/gramalert/internal/records"
	"github.com/gramalert/gramalert/internal/validation"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	store     *records.Store
	directory identity.Directory
	verifier  *identity.Verifier
	jwt       *auth.JWTManager
	trail     *audit.Trail
}

// NewHandler creates the handler set.
func NewHandler(cfg *config.Config, store *records.Store, directory identity.Directory, verifier *identity.Verifier, jwt *auth.JWTManager, trail *audit.Trail) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		directory: directory,
		verifier:  verifier,
		jwt:       jwt,
		trail:     trail,
	}
}

type loginRequest struct {
	UserID string `json:"userId" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Login issues a session token from the directory state. Unknown
// subjects sign in as citizens; their directory entry is created on the
// first role change.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondDomainError(w, r, verr)
		return
	}

	role := identity.RoleCitizen
	email := req.Email
	user, err := h.directory.GetUser(r.Context(), req.UserID)
	switch {
	case err == nil:
		role = user.Role()
		if user.Email != "" {
			email = user.Email
		}
	case errors.Is(err, identity.ErrUserNotFound):
		// First sign-in: citizen until an invite code says otherwise.
	default:
		respondDomainError(w, r, err)
		return
	}

	token, err := h.jwt.GenerateToken(req.UserID, email, role)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Security.SessionTimeout.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logging.Info().Str("user_id", req.UserID).Str("role", string(role)).Msg("Session issued")
	respondSuccess(w, http.StatusOK, loginResponse{
		Token:  token,
		UserID: req.UserID,
		Email:  email,
		Role:   string(role),
	})
}

// GetRole returns the authoritative role for the authenticated caller,
// fetched fresh from the directory rather than read from the session
// token.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}

	verified, err := h.verifier.Verify(r.Context(), subject.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, verified)
}

type setRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Invite string `json:"invite"`
}

type setRoleResponse struct {
	OK   bool   `json:"ok"`
	Role string `json:"role"`
}

// SetRole assigns a role to a subject. Privileged roles are gated by
// invite codes; anything unknown normalizes to citizen. The endpoint
// also accepts an authenticated session in place of the userId field.
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := decodeBody(r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if req.UserID == "" {
		if subject := auth.GetSubject(r.Context()); subject != nil {
			req.UserID = subject.ID
		}
	}
	if req.UserID == "" {
		respondDomainError(w, r, authz.ErrUnauthenticated)
		return
	}
	if req.Role == "" {
		respondDomainError(w, r, validation.NewFieldErrors("role", "role is required"))
		return
	}

	role := identity.ResolveRole(req.Role)
	switch role {
	case identity.RoleAsha:
		if req.Invite != h.cfg.Invites.AshaCode {
			respondError(w, http.StatusForbidden, ErrCodeRoleInsufficient, "Invalid invite code", nil)
			return
		}
	case identity.RoleAdmin:
		if req.Invite != h.cfg.Invites.AdminCode {
			respondError(w, http.StatusForbidden, ErrCodeRoleInsufficient, "Invalid invite code", nil)
			return
		}
	}

	if err := h.directory.SetRole(r.Context(), req.UserID, role); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.trail.Record(r.Context(), audit.EventRoleAssigned, req.UserID, req.UserID, map[string]string{
		"role":      string(role),
		"requested": req.Role,
	})
	logging.Info().Str("user_id", req.UserID).Str("role", string(role)).Msg("Role assigned")
	respondSuccess(w, http.StatusOK, setRoleResponse{OK: true, Role: string(role)})
}
