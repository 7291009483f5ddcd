// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// openTestDB opens an in-memory badger instance for tests.
func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open in-memory badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close badger: %v", err)
		}
	})
	return db
}

func TestBadgerDirectory(t *testing.T) {
	ctx := context.Background()
	dir := NewBadgerDirectory(openTestDB(t))

	t.Run("unknown subject", func(t *testing.T) {
		_, err := dir.GetUser(ctx, "nobody")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("set role creates entry", func(t *testing.T) {
		if err := dir.SetRole(ctx, "user_1", RoleAsha); err != nil {
			t.Fatalf("SetRole() error = %v", err)
		}

		user, err := dir.GetUser(ctx, "user_1")
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if user.Role() != RoleAsha {
			t.Errorf("Role() = %q, want %q", user.Role(), RoleAsha)
		}
	})

	t.Run("set role preserves other attributes", func(t *testing.T) {
		seed := &User{
			Subject:    "user_2",
			Email:      "u2@example.org",
			Attributes: Attributes{"role": "citizen", "village": "Rampur"},
		}
		if err := dir.SeedUser(ctx, seed); err != nil {
			t.Fatalf("SeedUser() error = %v", err)
		}

		if err := dir.SetRole(ctx, "user_2", RoleAdmin); err != nil {
			t.Fatalf("SetRole() error = %v", err)
		}

		user, err := dir.GetUser(ctx, "user_2")
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if user.Role() != RoleAdmin {
			t.Errorf("Role() = %q, want %q", user.Role(), RoleAdmin)
		}
		if user.Attributes["village"] != "Rampur" {
			t.Errorf("SetRole dropped attribute village = %v", user.Attributes["village"])
		}
		if user.Email != "u2@example.org" {
			t.Errorf("SetRole dropped email = %q", user.Email)
		}
	})
}

func TestRemoteDirectory(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/user_1":
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck // test server
			json.NewEncoder(w).Encode(remoteUser{
				Subject:    "user_1",
				Email:      "u1@example.org",
				Attributes: map[string]any{"role": " ASHA "},
			})
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/users/user_1/role":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	dir := NewRemoteDirectory(RemoteDirectoryConfig{BaseURL: srv.URL})

	t.Run("get user", func(t *testing.T) {
		user, err := dir.GetUser(ctx, "user_1")
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if user.Role() != RoleAsha {
			t.Errorf("Role() = %q, want %q (raw attribute must be normalized)", user.Role(), RoleAsha)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := dir.GetUser(ctx, "ghost")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("set role", func(t *testing.T) {
		if err := dir.SetRole(ctx, "user_1", RoleAdmin); err != nil {
			t.Errorf("SetRole() error = %v", err)
		}
	})

	t.Run("unreachable directory", func(t *testing.T) {
		dead := NewRemoteDirectory(RemoteDirectoryConfig{BaseURL: "http://127.0.0.1:1"})
		_, err := dead.GetUser(ctx, "user_1")
		if !errors.Is(err, ErrDirectoryUnavailable) {
			t.Errorf("GetUser() error = %v, want ErrDirectoryUnavailable", err)
		}
	})
}
