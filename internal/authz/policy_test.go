// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package authz

import (
	"errors"
	"testing"

	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/identity"
)

func newTestPolicy(t *testing.T) *Policy {
	t.Helper()
	enforcer, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	return NewPolicy(enforcer)
}

func TestPolicyRoleMatrix(t *testing.T) {
	policy := newTestPolicy(t)

	tests := []struct {
		name    string
		role    identity.Role
		action  Action
		allowed bool
	}{
		{"citizen aggregate summary", identity.RoleCitizen, ActionSummaryAggregate, true},
		{"citizen detail summary denied", identity.RoleCitizen, ActionSummaryDetail, false},
		{"citizen create record denied", identity.RoleCitizen, ActionCreateRecord, false},
		{"citizen create report denied", identity.RoleCitizen, ActionCreateReport, false},
		{"citizen read registered denied", identity.RoleCitizen, ActionReadAllRecords, false},

		{"asha create report", identity.RoleAsha, ActionCreateReport, true},
		{"asha create record", identity.RoleAsha, ActionCreateRecord, true},
		{"asha read own records", identity.RoleAsha, ActionReadOwnRecords, true},
		{"asha read all records", identity.RoleAsha, ActionReadAllRecords, true},
		{"asha update record", identity.RoleAsha, ActionUpdateRecord, true},
		{"asha register record", identity.RoleAsha, ActionRegisterRecord, true},
		{"asha detail summary", identity.RoleAsha, ActionSummaryDetail, true},
		{"asha aggregate summary denied", identity.RoleAsha, ActionSummaryAggregate, false},

		{"admin inherits create record", identity.RoleAdmin, ActionCreateRecord, true},
		{"admin inherits register", identity.RoleAdmin, ActionRegisterRecord, true},
		{"admin inherits detail summary", identity.RoleAdmin, ActionSummaryDetail, true},
		{"admin reads audit trail", identity.RoleAdmin, ActionReadAudit, true},
		{"asha audit trail denied", identity.RoleAsha, ActionReadAudit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := policy.Allows(tt.role, tt.action)
			if err != nil {
				t.Fatalf("Allows: %v", err)
			}
			if allowed != tt.allowed {
				t.Errorf("Allows(%s, %s) = %v, want %v", tt.role, tt.action, allowed, tt.allowed)
			}
		})
	}
}

func TestPolicyAuthorize(t *testing.T) {
	policy := newTestPolicy(t)

	t.Run("nil subject", func(t *testing.T) {
		if err := policy.Authorize(nil, ActionCreateRecord); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("Authorize(nil) = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("denied carries role", func(t *testing.T) {
		subject := &auth.Subject{ID: "user_1", Role: identity.RoleCitizen}
		err := policy.Authorize(subject, ActionCreateRecord)
		if !errors.Is(err, ErrRoleInsufficient) {
			t.Fatalf("Authorize = %v, want ErrRoleInsufficient", err)
		}
		var denied *RoleDeniedError
		if !errors.As(err, &denied) {
			t.Fatalf("Authorize error is not *RoleDeniedError: %v", err)
		}
		if denied.Role != identity.RoleCitizen {
			t.Errorf("denied.Role = %q, want citizen", denied.Role)
		}
	})

	t.Run("explicit role overrides session role", func(t *testing.T) {
		// Session minted before promotion; directory now says asha.
		subject := &auth.Subject{ID: "user_1", Role: identity.RoleCitizen}
		if err := policy.AuthorizeRole(subject, identity.RoleAsha, ActionCreateRecord); err != nil {
			t.Errorf("AuthorizeRole(asha) = %v, want nil", err)
		}
	})
}

func TestPolicyAuthorizeOwned(t *testing.T) {
	policy := newTestPolicy(t)

	tests := []struct {
		name    string
		subject *auth.Subject
		role    identity.Role
		ownerID string
		wantErr error
	}{
		{
			name:    "owner may update",
			subject: &auth.Subject{ID: "user_1", Role: identity.RoleAsha},
			role:    identity.RoleAsha,
			ownerID: "user_1",
			wantErr: nil,
		},
		{
			name:    "non-owner denied",
			subject: &auth.Subject{ID: "user_1", Role: identity.RoleAsha},
			role:    identity.RoleAsha,
			ownerID: "user_2",
			wantErr: ErrNotOwner,
		},
		{
			name:    "admin bypasses ownership",
			subject: &auth.Subject{ID: "user_1", Role: identity.RoleAdmin},
			role:    identity.RoleAdmin,
			ownerID: "user_2",
			wantErr: nil,
		},
		{
			name:    "role check precedes ownership",
			subject: &auth.Subject{ID: "user_1", Role: identity.RoleCitizen},
			role:    identity.RoleCitizen,
			ownerID: "user_1",
			wantErr: ErrRoleInsufficient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeOwned(tt.subject, tt.role, ActionUpdateRecord, tt.ownerID)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("AuthorizeOwned = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizeOwned = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
