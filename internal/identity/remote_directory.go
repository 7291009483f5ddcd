// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteDirectoryConfig holds configuration for a hosted directory.
type RemoteDirectoryConfig struct {
	// BaseURL is the directory API base, e.g. https://identity.example.org/v1
	BaseURL string

	// APIKey authenticates GramAlert to the directory API.
	APIKey string

	// Timeout bounds each directory call. Default: 5s.
	Timeout time.Duration
}

// RemoteDirectory implements Directory against a hosted identity
// provider's user API. The hosted provider owns authentication; GramAlert
// only reads and writes the role attribute.
type RemoteDirectory struct {
	client *resty.Client
}

// remoteUser is the wire shape of a directory entry.
type remoteUser struct {
	Subject    string         `json:"subject"`
	Email      string         `json:"email,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

// NewRemoteDirectory creates a directory client for a hosted provider.
func NewRemoteDirectory(cfg RemoteDirectoryConfig) *RemoteDirectory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &RemoteDirectory{client: client}
}

// GetUser fetches a directory entry from the hosted provider.
func (d *RemoteDirectory) GetUser(ctx context.Context, subject string) (*User, error) {
	var out remoteUser

	resp, err := d.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetPathParam("subject", subject).
		Get("/users/{subject}")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &User{
			Subject:    out.Subject,
			Email:      out.Email,
			Attributes: Attributes(out.Attributes),
		}, nil
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("%w: directory returned %d", ErrDirectoryUnavailable, resp.StatusCode())
	}
}

// SetRole replaces the subject's role attribute on the hosted provider.
func (d *RemoteDirectory) SetRole(ctx context.Context, subject string, role Role) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"role": role.String()}).
		SetPathParam("subject", subject).
		Put("/users/{subject}/role")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("%w: directory returned %d", ErrDirectoryUnavailable, resp.StatusCode())
	}
	return nil
}
