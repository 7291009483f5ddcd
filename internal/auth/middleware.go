// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gramalert/gramalert/internal/logging"
)

// tokenCookieName is the fallback cookie checked when no Authorization
// header is present.
const tokenCookieName = "token"

// Middleware authenticates requests using bearer session tokens and puts
// the resulting Subject on the request context.
type Middleware struct {
	jwt *JWTManager
}

// NewMiddleware creates authentication middleware.
func NewMiddleware(jwt *JWTManager) *Middleware {
	return &Middleware{jwt: jwt}
}

// Authenticate requires a valid session token. Requests without one get
// 401 with a sign-in prompt; valid requests proceed with the Subject in
// context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			respondUnauthenticated(w, "Not authenticated")
			return
		}

		subject, err := m.jwt.ValidateToken(tokenStr)
		if err != nil {
			if errors.Is(err, ErrExpiredCredentials) {
				respondUnauthenticated(w, "Session expired, sign in again")
				return
			}
			logging.Debug().Err(err).Msg("Token validation failed")
			respondUnauthenticated(w, "Not authenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
	})
}

// extractToken extracts the bearer token from the Authorization header or
// the token cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// respondUnauthenticated writes the 401 envelope. Kept here rather than
// in the api package to avoid an import cycle.
func respondUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // nothing useful to do with a failed error write
	w.Write([]byte(`{"status":"error","error":{"code":"UNAUTHENTICATED","message":"` + message + `"}}`))
}
