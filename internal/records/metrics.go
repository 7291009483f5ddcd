// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package records

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordOperationsTotal counts store operations by name and outcome.
	RecordOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gramalert_record_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"operation", "outcome"},
	)
)

func recordOperation(operation, outcome string) {
	RecordOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
