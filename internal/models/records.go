// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package models defines the persisted GramAlert data structures and the
// standardized API response envelope.
package models

import "time"

// Status is the lifecycle status of a disease record.
type Status string

const (
	// StatusDraft is the initial, editable status. Entered atomically
	// with record creation.
	StatusDraft Status = "draft"

	// StatusRegistered is the terminal, published status. No transition
	// leaves it.
	StatusRegistered Status = "registered"
)

// Valid reports whether the status is one of the defined states.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusRegistered
}

// SupplyItem is one requested medical supply line on a disease record.
type SupplyItem struct {
	Name string `json:"name"`
	// Quantity must be positive; enforced before persistence.
	Quantity int `json:"quantity"`
}

// HealthReport is a village-level, aggregate-eligible report.
//
// Reports are immutable once created: there is no update or delete
// operation. CreatedBy and CreatedByRole are stamped server-side from the
// authenticated caller, never from request fields.
type HealthReport struct {
	ID            string    `json:"id"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByRole string    `json:"createdByRole"`
	Disease       string    `json:"disease"`
	Description   string    `json:"description"`
	Symptoms      []string  `json:"symptoms"`
	Village       string    `json:"village"`
	Location      string    `json:"location"`
	Date          string    `json:"date"`
	Image         string    `json:"image,omitempty"`
	ItemName      string    `json:"itemName"`
	ItemQuantity  int       `json:"itemQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DiseaseRecord is the richer, mutable report with a draft → registered
// lifecycle.
//
// CreatedBy is set once at creation and never changes; Status only moves
// through the records package's lifecycle rules.
type DiseaseRecord struct {
	ID              string       `json:"id"`
	CreatedBy       string       `json:"createdBy"`
	CreatedByRole   string       `json:"createdByRole"`
	DiseaseName     string       `json:"diseaseName"`
	Description     string       `json:"description"`
	ImageURL        string       `json:"imageUrl,omitempty"`
	Location        string       `json:"location,omitempty"`
	MedicalSupplies []SupplyItem `json:"medicalSupplies"`
	Status          Status       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
}

// LastModified returns UpdatedAt when present, else CreatedAt. Used for
// the registered-records ordering.
func (r *DiseaseRecord) LastModified() time.Time {
	if r.UpdatedAt != nil {
		return *r.UpdatedAt
	}
	return r.CreatedAt
}

// VillageSummary is the role-shaped response for a village query.
//
// Citizens get Type "summary" with ByDisease counts only: this is the
// privacy boundary, so no report contents appear. Privileged callers get
// Type "detailed" with the full report list.
type VillageSummary struct {
	Type      string          `json:"type"`
	ByDisease map[string]int  `json:"byDisease,omitempty"`
	Reports   []*HealthReport `json:"reports,omitempty"`
}
