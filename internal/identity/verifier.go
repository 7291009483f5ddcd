// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gramalert/gramalert/internal/logging"
)

// ErrVerificationUnavailable indicates the authoritative role could not be
// fetched (directory down or circuit open). Callers fall back to the
// cached claim only.
var ErrVerificationUnavailable = errors.New("role verification unavailable")

// Verification is an authoritative role check result for one subject.
//
// A Verification is trusted in place of a cached claim only because the
// Verifier minted it from a fresh directory fetch. The unexported issued
// marker makes a client-decoded or hand-built value unusable: JSON
// unmarshaling and struct literals outside this package cannot set it, so
// a raw client-supplied "server verified" role never passes Covers.
type Verification struct {
	// Subject is the subject the role was fetched for.
	Subject string `json:"userId"`

	// Role is the normalized authoritative role.
	Role Role `json:"role"`

	// HasPermission reports whether Role may create and manage records.
	HasPermission bool `json:"hasPermission"`

	// RawAttributes is the directory attribute bag at verification time.
	RawAttributes Attributes `json:"rawAttributes"`

	// VerifiedAt is when the authoritative fetch completed.
	VerifiedAt time.Time `json:"verifiedAt"`

	issued bool
}

// Covers reports whether this verification can stand in for the cached
// claim of the given subject: it must be verifier-issued, bound to the
// same subject, and no older than maxAge.
func (v *Verification) Covers(subject string, maxAge time.Duration) bool {
	if v == nil || !v.issued || v.Subject == "" || v.Subject != subject {
		return false
	}
	if maxAge > 0 && time.Since(v.VerifiedAt) > maxAge {
		return false
	}
	return true
}

// VerifierConfig holds configuration for the role verifier.
type VerifierConfig struct {
	// Timeout bounds each authoritative fetch. Default: 5s.
	Timeout time.Duration

	// BreakerOpenTimeout is how long the circuit stays open before a
	// recovery probe. Default: 30s.
	BreakerOpenTimeout time.Duration
}

// Verifier re-fetches the authoritative role for a subject directly from
// the directory. It exists because the role claim embedded in a caller's
// session token is refreshed only on a new session and can lag behind the
// directory. Directory calls are bounded by a timeout and wrapped in a
// circuit breaker so a dead directory degrades the write path to
// cached-claim-only instead of stalling it.
type Verifier struct {
	directory Directory
	timeout   time.Duration
	cb        *gobreaker.CircuitBreaker[*User]
}

// NewVerifier creates a role verifier over the given directory.
func NewVerifier(directory Directory, cfg VerifierConfig) *Verifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	openTimeout := cfg.BreakerOpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*User](gobreaker.Settings{
		Name:        "identity-directory",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Directory circuit breaker state change")
		},
	})

	return &Verifier{
		directory: directory,
		timeout:   timeout,
		cb:        cb,
	}
}

// Verify fetches the authoritative role for the subject.
//
// Returns ErrVerificationUnavailable (wrapped) when the directory is
// unreachable or the breaker is open; the caller then proceeds on the
// cached claim alone. ErrUserNotFound passes through untouched: an
// unknown subject is an answer, not an outage, and resolves to citizen.
func (v *Verifier) Verify(ctx context.Context, subject string) (*Verification, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	user, err := v.cb.Execute(func() (*User, error) {
		u, err := v.directory.GetUser(fetchCtx, subject)
		if errors.Is(err, ErrUserNotFound) {
			// Not a directory failure; don't trip the breaker.
			return nil, nil
		}
		return u, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ErrVerificationUnavailable)
		}
		return nil, fmt.Errorf("%w: %w", ErrVerificationUnavailable, err)
	}

	var attrs Attributes
	if user != nil {
		attrs = user.Attributes
	}
	role := ResolveRoleFromAttributes(attrs)

	return &Verification{
		Subject:       subject,
		Role:          role,
		HasPermission: role.Privileged(),
		RawAttributes: attrs,
		VerifiedAt:    time.Now().UTC(),
		issued:        true,
	}, nil
}
