// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package identity models the identity directory that backs GramAlert.
//
// The directory is an external system of record: it owns the mapping from
// an opaque subject identifier to an untyped attribute bag that includes a
// role attribute. This package wraps that bag behind typed accessors,
// normalizes raw role values into the three-role model, and provides the
// cross-channel verification path used when a caller's cached claim has
// gone stale.
package identity

import "strings"

// Role is a normalized GramAlert role.
type Role string

const (
	// RoleCitizen is the default role. Citizens see village-level
	// aggregates only.
	RoleCitizen Role = "citizen"

	// RoleAsha is a community health worker allowed to create and manage
	// their own reports and disease records.
	RoleAsha Role = "asha"

	// RoleAdmin has full access including cross-owner record actions.
	RoleAdmin Role = "admin"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{string(RoleCitizen), string(RoleAsha), string(RoleAdmin)}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Privileged reports whether the role may create and manage records.
func (r Role) Privileged() bool {
	return r == RoleAsha || r == RoleAdmin
}

// ResolveRole normalizes a raw role attribute value.
//
// The raw value is lowercased and trimmed; only exact matches for "asha"
// and "admin" map to privileged roles. Every other value, including the
// empty string, resolves to citizen. ResolveRole never fails: absence of
// the attribute and absence of an authenticated identity both land on the
// citizen default.
func ResolveRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleAsha):
		return RoleAsha
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleCitizen
	}
}

// ResolveRoleFromAttributes extracts and normalizes the role attribute
// from a raw attribute bag. A nil bag resolves to citizen.
func ResolveRoleFromAttributes(attrs Attributes) Role {
	return ResolveRole(attrs.RoleRaw())
}
