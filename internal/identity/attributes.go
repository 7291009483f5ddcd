// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package identity

// Attributes is the narrow typed accessor over the directory's untyped
// attribute bag. The directory stores arbitrary key-value metadata per
// user; the rest of the system only ever reads through these accessors so
// raw untyped data never crosses the package boundary.
type Attributes map[string]any

// attributeKeyRole is the bag key holding the raw role value.
const attributeKeyRole = "role"

// attributeKeyEmail is the bag key holding the optional email value.
const attributeKeyEmail = "email"

// RoleRaw returns the raw, unnormalized role attribute value.
// Missing or non-string values return the empty string.
func (a Attributes) RoleRaw() string {
	return a.stringVal(attributeKeyRole)
}

// Email returns the email attribute, or empty if absent.
// Email is informational only; no authorization decision reads it.
func (a Attributes) Email() string {
	return a.stringVal(attributeKeyEmail)
}

// WithRole returns a copy of the bag with the role attribute replaced.
// The receiver is not modified.
func (a Attributes) WithRole(role Role) Attributes {
	out := make(Attributes, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[attributeKeyRole] = role.String()
	return out
}

func (a Attributes) stringVal(key string) string {
	if a == nil {
		return ""
	}
	v, ok := a[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
