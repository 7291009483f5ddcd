// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gramalert/gramalert/internal/identity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, timeout)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	t.Run("short secret rejected", func(t *testing.T) {
		if _, err := NewJWTManager("short", time.Hour); err == nil {
			t.Error("NewJWTManager() accepted a short secret")
		}
	})

	t.Run("valid secret", func(t *testing.T) {
		if _, err := NewJWTManager(testSecret, time.Hour); err != nil {
			t.Errorf("NewJWTManager() error = %v", err)
		}
	})
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.GenerateToken("user_1", "asha@example.org", identity.RoleAsha)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	subject, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if subject.ID != "user_1" {
		t.Errorf("ID = %q, want %q", subject.ID, "user_1")
	}
	if subject.Email != "asha@example.org" {
		t.Errorf("Email = %q, want %q", subject.Email, "asha@example.org")
	}
	if subject.Role != identity.RoleAsha {
		t.Errorf("Role = %q, want %q", subject.Role, identity.RoleAsha)
	}
}

// TestTokenRoleNormalization checks that a raw role claim is normalized
// once at validation time, not re-derived downstream.
func TestTokenRoleNormalization(t *testing.T) {
	m := newTestManager(t, time.Hour)

	// A token carrying an unknown role string resolves to citizen.
	token, err := m.GenerateToken("user_2", "", identity.Role("Supervisor"))
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	subject, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if subject.Role != identity.RoleCitizen {
		t.Errorf("Role = %q, want citizen", subject.Role)
	}
	if subject.RoleRaw != "Supervisor" {
		t.Errorf("RoleRaw = %q, want original claim preserved", subject.RoleRaw)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	m := newTestManager(t, time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := m.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ValidateToken() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour)
		if err != nil {
			t.Fatalf("NewJWTManager() error = %v", err)
		}
		token, err := other.GenerateToken("user_1", "", identity.RoleAdmin)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ValidateToken() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		short := newTestManager(t, time.Millisecond)
		token, err := short.GenerateToken("user_1", "", identity.RoleAsha)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, err := short.ValidateToken(token); !errors.Is(err, ErrExpiredCredentials) {
			t.Errorf("ValidateToken() error = %v, want ErrExpiredCredentials", err)
		}
	})
}
