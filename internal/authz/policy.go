// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package authz

import (
	"errors"
	"fmt"

	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/identity"
)

var (
	// ErrUnauthenticated is returned when no authenticated subject is
	// available for the check.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrRoleInsufficient is returned when the caller's role does not
	// grant the requested action. Compare with errors.Is; the concrete
	// error is a *RoleDeniedError carrying the role that was checked.
	ErrRoleInsufficient = errors.New("role does not permit this action")

	// ErrNotOwner is returned when the caller's role grants the action
	// but the target record belongs to someone else.
	ErrNotOwner = errors.New("record belongs to another user")
)

// RoleDeniedError reports which role was evaluated when an action was
// denied. Callers that can re-verify the caller's role server-side use
// it to decide whether a retry with a fresher role is worthwhile.
type RoleDeniedError struct {
	Role   identity.Role
	Action Action
}

func (e *RoleDeniedError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

func (e *RoleDeniedError) Unwrap() error { return ErrRoleInsufficient }

// Action names a permission in the role table as an object plus a verb.
type Action struct {
	Object string
	Verb   string
}

func (a Action) String() string { return a.Object + ":" + a.Verb }

// The full set of actions the policy table knows about.
var (
	ActionCreateReport     = Action{Object: "report", Verb: "create"}
	ActionCreateRecord     = Action{Object: "record", Verb: "create"}
	ActionReadOwnRecords   = Action{Object: "record", Verb: "read_own"}
	ActionReadAllRecords   = Action{Object: "record", Verb: "read_all"}
	ActionUpdateRecord     = Action{Object: "record", Verb: "update"}
	ActionRegisterRecord   = Action{Object: "record", Verb: "register"}
	ActionSummaryAggregate = Action{Object: "summary", Verb: "aggregate"}
	ActionSummaryDetail    = Action{Object: "summary", Verb: "detail"}
	ActionReadAudit        = Action{Object: "audit", Verb: "read"}
)

// Policy answers authorization questions for record operations. All
// decisions reduce to the caller's resolved role; unknown raw roles
// have already been normalized to citizen by the identity layer.
type Policy struct {
	enforcer *Enforcer
}

// NewPolicy creates a policy backed by the given enforcer.
func NewPolicy(enforcer *Enforcer) *Policy {
	return &Policy{enforcer: enforcer}
}

// Allows reports whether the role grants the action.
func (p *Policy) Allows(role identity.Role, act Action) (bool, error) {
	allowed, err := p.enforcer.Enforce(string(role), act.Object, act.Verb)
	if err != nil {
		return false, err
	}
	RecordDecision(role, act, allowed)
	return allowed, nil
}

// Authorize checks the action against the subject's session role.
func (p *Policy) Authorize(subject *auth.Subject, act Action) error {
	if subject == nil {
		return ErrUnauthenticated
	}
	return p.AuthorizeRole(subject, subject.Role, act)
}

// AuthorizeRole checks the action against an explicit effective role,
// which may be fresher than the one baked into the session token.
func (p *Policy) AuthorizeRole(subject *auth.Subject, role identity.Role, act Action) error {
	if subject == nil {
		return ErrUnauthenticated
	}
	allowed, err := p.Allows(role, act)
	if err != nil {
		return err
	}
	if !allowed {
		return &RoleDeniedError{Role: role, Action: act}
	}
	return nil
}

// AuthorizeOwned checks the action and then ownership of the target.
// Admins may act on records owned by anyone; every other role only on
// their own.
func (p *Policy) AuthorizeOwned(subject *auth.Subject, role identity.Role, act Action, ownerID string) error {
	if err := p.AuthorizeRole(subject, role, act); err != nil {
		return err
	}
	if subject.ID != ownerID && role != identity.RoleAdmin {
		return fmt.Errorf("%w: %s on %s", ErrNotOwner, act, ownerID)
	}
	return nil
}
