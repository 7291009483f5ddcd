// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gramalert/gramalert/internal/auth"
	"github.com/gramalert/gramalert/internal/config"
)

// Router wires handlers, middleware, and routes.
type Router struct {
	cfg     *config.Config
	handler *Handler
	authMW  *auth.Middleware
}

// NewRouter creates the router.
func NewRouter(cfg *config.Config, handler *Handler, authMW *auth.Middleware) *Router {
	return &Router{cfg: cfg, handler: handler, authMW: authMW}
}

// Setup builds the full route tree.
//
// POST /api/v1/auth/role sits outside the authentication group: a new
// signup picks its role before it holds a session token, identified by
// the userId in the body. Everything touching reports or records
// requires a session.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	r.Use(requestMetrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.Server.RateLimitReqs > 0 {
			r.Use(httprate.Limit(
				rt.cfg.Server.RateLimitReqs,
				rt.cfg.Server.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
			))
		}

		r.Get("/health", rt.handler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", rt.handler.Login)
			r.Post("/role", rt.handler.SetRole)
			r.Group(func(r chi.Router) {
				r.Use(rt.authMW.Authenticate)
				r.Get("/role", rt.handler.GetRole)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(rt.authMW.Authenticate)

			r.Post("/reports", rt.handler.CreateReport)
			r.Get("/villages/{village}/summary", rt.handler.VillageSummary)

			r.Post("/records", rt.handler.CreateRecord)
			r.Get("/records", rt.handler.ListOwnRecords)
			r.Get("/records/registered", rt.handler.ListRegisteredRecords)
			r.Put("/records/{id}", rt.handler.UpdateRecord)
			r.Post("/records/{id}/register", rt.handler.RegisterRecord)

			r.Get("/audit", rt.handler.ListAuditEvents)
		})
	})

	return r
}
