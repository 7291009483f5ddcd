// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package identity

import (
	"context"
	"errors"
)

// Directory errors
var (
	// ErrUserNotFound indicates the subject has no directory entry.
	ErrUserNotFound = errors.New("user not found in directory")

	// ErrDirectoryUnavailable indicates the directory could not be reached.
	ErrDirectoryUnavailable = errors.New("identity directory unavailable")
)

// User is a directory entry for one subject.
type User struct {
	// Subject is the opaque subject identifier, owned by the directory.
	Subject string `json:"subject"`

	// Email is the optional email attribute (informational only).
	Email string `json:"email,omitempty"`

	// Attributes is the raw attribute bag, including the role attribute.
	Attributes Attributes `json:"attributes"`
}

// Role returns the user's normalized role.
func (u *User) Role() Role {
	if u == nil {
		return RoleCitizen
	}
	return ResolveRoleFromAttributes(u.Attributes)
}

// Directory is the authoritative store of subjects and their role
// attributes. It is owned by the identity provider; GramAlert reads roles
// from it and writes role attributes through it on invite-gated role
// changes.
type Directory interface {
	// GetUser fetches a directory entry. Returns ErrUserNotFound if the
	// subject has no entry, or ErrDirectoryUnavailable (possibly wrapped)
	// on transport failure.
	GetUser(ctx context.Context, subject string) (*User, error)

	// SetRole replaces the subject's role attribute. Creates the entry if
	// the subject is unknown (the directory is the system of record for
	// subjects; GramAlert never invents them elsewhere).
	SetRole(ctx context.Context, subject string, role Role) error
}
