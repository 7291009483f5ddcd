// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package authz

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gramalert/gramalert/internal/identity"
)

var (
	// AuthzDecisionsTotal counts authorization decisions by role,
	// object, action, and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gramalert_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "object", "action", "allowed"},
	)

	// AuthzDeniedTotal tracks denials for alerting. A sustained spike
	// usually means stale session roles rather than abuse.
	AuthzDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gramalert_authz_denied_total",
			Help: "Total number of denied authorization decisions",
		},
		[]string{"role", "object", "action"},
	)
)

// RecordDecision records a single authorization decision.
func RecordDecision(role identity.Role, act Action, allowed bool) {
	AuthzDecisionsTotal.WithLabelValues(string(role), act.Object, act.Verb, strconv.FormatBool(allowed)).Inc()
	if !allowed {
		AuthzDeniedTotal.WithLabelValues(string(role), act.Object, act.Verb).Inc()
	}
}
