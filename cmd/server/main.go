// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package main is the entry point for the GramAlert server.
//
// GramAlert is a village disease surveillance service: citizens see
// aggregate outbreak summaries for their village, ASHA health workers
// file reports and manage disease records through a draft to registered
// lifecycle, and admins oversee all records.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered defaults, YAML file, environment
//  2. Logging: zerolog, JSON or console format
//  3. Storage: BadgerDB (records, reports, local user directory)
//  4. Identity: directory (local or remote), role verifier
//  5. Authorization: Casbin role policy
//  6. HTTP server: Chi router with graceful shutdown
//
// Signal handling: SIGINT and SIGTERM stop the listener, drain in-flight
// requests within the configured shutdown timeout, then close storage.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/gramalert/gramalert/internal/api"
	"github.com/gramalert/gramalert/internal/audit"
	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/authz"
	"github.com/gramalert/gramalert/internal/config"
	"github.com/gramalert/gramalert/internal/identity"
	"github.com/gramalert/gramalert/internal/logging"
	"github.com/gramalert/gramalert/internal/records"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("directory_mode", cfg.Directory.Mode).
		Msg("Starting GramAlert")

	db, err := openDatabase(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()
	go runValueLogGC(gcCtx, db)

	directory, err := buildDirectory(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize directory")
	}
	verifier := identity.NewVerifier(directory, identity.VerifierConfig{
		Timeout: cfg.Directory.Timeout,
	})

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	store := records.NewStore(db, authz.NewPolicy(enforcer))

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session tokens")
	}

	trail := audit.NewTrail(db)
	handler := api.NewHandler(cfg, store, directory, verifier, jwtManager, trail)
	router := api.NewRouter(cfg, handler, auth.NewMiddleware(jwtManager))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("GramAlert stopped")
}

func openDatabase(cfg *config.Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Database.Path).WithLogger(nil)
	if cfg.Database.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	return badger.Open(opts)
}

// runValueLogGC reclaims badger value log space periodically. Badger
// returns ErrNoRewrite when there is nothing to collect, which is not a
// failure.
func runValueLogGC(ctx context.Context, db *badger.DB) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Debug().Err(err).Msg("Value log GC pass skipped")
			}
		}
	}
}

// buildDirectory selects the role directory implementation and seeds the
// bootstrap admin in local mode.
func buildDirectory(cfg *config.Config, db *badger.DB) (identity.Directory, error) {
	if cfg.Directory.Mode == "remote" {
		return identity.NewRemoteDirectory(identity.RemoteDirectoryConfig{
			BaseURL: cfg.Directory.URL,
			APIKey:  cfg.Directory.APIKey,
			Timeout: cfg.Directory.Timeout,
		}), nil
	}

	directory := identity.NewBadgerDirectory(db)
	if subject := cfg.Directory.BootstrapAdmin; subject != "" {
		user := &identity.User{
			Subject:    subject,
			Email:      cfg.Directory.BootstrapAdminEmail,
			Attributes: identity.Attributes{}.WithRole(identity.RoleAdmin),
		}
		if err := directory.SeedUser(context.Background(), user); err != nil {
			return nil, err
		}
		logging.Info().Str("subject", subject).Msg("Bootstrap admin seeded")
	}
	return directory, nil
}
