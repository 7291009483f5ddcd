// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gramalert/gramalert/internal/identity"
)

// Claims represents the session token claims. The role claim is a cached
// copy of the directory's role attribute at token issuance; it is not
// refreshed until a new session.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles session token creation and validation.
// Uses HMAC-SHA256 signing.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTManager creates a session token manager.
//
// The secret must be at least 32 characters; tokens are valid for the
// given timeout from issuance.
func NewJWTManager(secret string, timeout time.Duration) (*JWTManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters, got %d", len(secret))
	}
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}

	return &JWTManager{
		secret:  []byte(secret),
		timeout: timeout,
	}, nil
}

// GenerateToken creates a signed session token for a subject. The role is
// the subject's directory role at issuance time and becomes the cached
// claim for the life of the session.
func (m *JWTManager) GenerateToken(subject, email string, role identity.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Role:  role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a session token and builds the Subject.
// The role claim is normalized exactly once here.
func (m *JWTManager) ValidateToken(tokenString string) (*Subject, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}

	return &Subject{
		ID:      claims.Subject,
		Email:   claims.Email,
		RoleRaw: claims.Role,
		Role:    identity.ResolveRole(claims.Role),
	}, nil
}
