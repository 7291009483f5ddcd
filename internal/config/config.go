// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package config holds the application configuration, loaded with
// Koanf v2 from three layers in increasing precedence: built-in
// defaults, an optional YAML file, and environment variables.
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Directory DirectoryConfig `koanf:"directory"`
	Invites   InviteConfig    `koanf:"invites"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds the Badger settings. InMemory is for tests and
// throwaway deployments only; data is gone on restart.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SecurityConfig holds session token settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required, minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the lifetime of an issued session token.
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

// DirectoryConfig selects where authoritative user roles live.
//
// Mode "local" stores users in the same Badger database as the records.
// Mode "remote" proxies to an external user directory over HTTP.
type DirectoryConfig struct {
	Mode    string        `koanf:"mode"`
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// BootstrapAdmin optionally names a subject seeded with the admin
	// role at startup in local mode, so a fresh deployment has one
	// privileged account.
	BootstrapAdmin      string `koanf:"bootstrap_admin"`
	BootstrapAdminEmail string `koanf:"bootstrap_admin_email"`
}

// InviteConfig holds the invite codes gating privileged role signup.
type InviteConfig struct {
	AshaCode  string `koanf:"asha_code"`
	AdminCode string `koanf:"admin_code"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}

	switch c.Directory.Mode {
	case "local":
	case "remote":
		if c.Directory.URL == "" {
			return fmt.Errorf("directory.url is required when directory.mode is remote")
		}
	default:
		return fmt.Errorf("directory.mode must be local or remote, got %q", c.Directory.Mode)
	}

	if c.Invites.AshaCode == "" || c.Invites.AdminCode == "" {
		return fmt.Errorf("invite codes must not be empty")
	}
	if c.Invites.AshaCode == c.Invites.AdminCode {
		return fmt.Errorf("asha and admin invite codes must differ")
	}
	return nil
}
