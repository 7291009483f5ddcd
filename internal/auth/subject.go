// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package auth provides the session claim channel: bearer tokens carrying
// a cached role claim, validated per request and normalized into a
// Subject. The claim's role can lag behind the identity directory; the
// identity package's Verifier is the authoritative channel.
package auth

import (
	"context"
	"errors"

	"github.com/gramalert/gramalert/internal/identity"
)

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Subject represents an authenticated caller.
//
// Role is resolved exactly once, when the subject is built from the
// token; every downstream permission check reads it from here instead of
// re-deriving it from raw claims. RoleRaw keeps the unnormalized claim
// value for diagnostics.
type Subject struct {
	// ID is the opaque subject identifier (the token 'sub' claim).
	ID string `json:"id"`

	// Email is the optional email claim, informational only.
	Email string `json:"email,omitempty"`

	// RoleRaw is the role claim exactly as it appeared in the token.
	RoleRaw string `json:"role_raw,omitempty"`

	// Role is the normalized cached role claim. Possibly stale relative
	// to the identity directory.
	Role identity.Role `json:"role"`
}

type contextKey string

// subjectContextKey is the context key for the authenticated subject.
const subjectContextKey contextKey = "auth_subject"

// WithSubject returns a context carrying the authenticated subject.
func WithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// GetSubject returns the authenticated subject from the context, or nil
// if the request is unauthenticated.
func GetSubject(ctx context.Context) *Subject {
	subject, _ := ctx.Value(subjectContextKey).(*Subject)
	return subject
}
