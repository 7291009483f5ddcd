// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package records

import "github.com/gramalert/gramalert/internal/models"

// SupplyInput is one requested medical supply line in a create or
// update request.
type SupplyInput struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// CreateReportInput is the request body for a new health report.
type CreateReportInput struct {
	Disease      string   `json:"disease" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Symptoms     []string `json:"symptoms" validate:"required,min=1,dive,required"`
	Village      string   `json:"village" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Date         string   `json:"date" validate:"required"`
	Image        string   `json:"image" validate:"omitempty"`
	ItemName     string   `json:"itemName" validate:"required"`
	ItemQuantity int      `json:"itemQuantity" validate:"required,gt=0"`
}

// CreateRecordInput is the request body for a new draft disease record.
type CreateRecordInput struct {
	DiseaseName     string        `json:"diseaseName" validate:"required"`
	Description     string        `json:"description" validate:"required"`
	ImageURL        string        `json:"imageUrl" validate:"omitempty"`
	Location        string        `json:"location" validate:"omitempty"`
	MedicalSupplies []SupplyInput `json:"medicalSupplies" validate:"omitempty,dive"`
}

// UpdateRecordInput patches an existing disease record. Nil fields are
// left unchanged; Status and CreatedBy are never patchable.
type UpdateRecordInput struct {
	DiseaseName     *string        `json:"diseaseName" validate:"omitempty,min=1"`
	Description     *string        `json:"description" validate:"omitempty,min=1"`
	ImageURL        *string        `json:"imageUrl" validate:"omitempty"`
	Location        *string        `json:"location"`
	MedicalSupplies *[]SupplyInput `json:"medicalSupplies" validate:"omitempty,dive"`
}

func toSupplyItems(in []SupplyInput) []models.SupplyItem {
	if in == nil {
		return nil
	}
	items := make([]models.SupplyItem, len(in))
	for i, s := range in {
		items[i] = models.SupplyItem{Name: s.Name, Quantity: s.Quantity}
	}
	return items
}
