// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults with secret are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "" },
			wantErr: "jwt_secret is required",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "out of range",
		},
		{
			name:    "unknown directory mode",
			mutate:  func(c *Config) { c.Directory.Mode = "ldap" },
			wantErr: "must be local or remote",
		},
		{
			name:    "remote mode requires url",
			mutate:  func(c *Config) { c.Directory.Mode = "remote" },
			wantErr: "directory.url is required",
		},
		{
			name: "remote mode with url is valid",
			mutate: func(c *Config) {
				c.Directory.Mode = "remote"
				c.Directory.URL = "https://directory.example.org"
			},
		},
		{
			name:    "empty invite code",
			mutate:  func(c *Config) { c.Invites.AshaCode = "" },
			wantErr: "invite codes must not be empty",
		},
		{
			name: "identical invite codes",
			mutate: func(c *Config) {
				c.Invites.AshaCode = "SAME"
				c.Invites.AdminCode = "SAME"
			},
			wantErr: "must differ",
		},
		{
			name: "missing database path",
			mutate: func(c *Config) {
				c.Database.Path = ""
			},
			wantErr: "database.path is required",
		},
		{
			name: "in-memory needs no path",
			mutate: func(c *Config) {
				c.Database.Path = ""
				c.Database.InMemory = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GRAMALERT_SECURITY_JWT_SECRET", testSecret)
	t.Setenv("GRAMALERT_SERVER_PORT", "9090")
	t.Setenv("GRAMALERT_SERVER_CORS_ORIGINS", "https://app.example.org, https://admin.example.org")
	t.Setenv("GRAMALERT_INVITES_ASHA_CODE", "FIELD2026")
	t.Setenv("GRAMALERT_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://app.example.org" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Invites.AshaCode != "FIELD2026" {
		t.Errorf("AshaCode = %q, want FIELD2026", cfg.Invites.AshaCode)
	}
	if cfg.Invites.AdminCode != "ADMIN2025" {
		t.Errorf("AdminCode = %q, want default ADMIN2025", cfg.Invites.AdminCode)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("SessionTimeout = %v, want default 24h", cfg.Security.SessionTimeout)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GRAMALERT_SERVER_PORT", "server.port"},
		{"GRAMALERT_SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"GRAMALERT_DIRECTORY_API_KEY", "directory.api_key"},
		{"GRAMALERT_SERVER_RATE_LIMIT_REQS", "server.rate_limit_reqs"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
