// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package validation

import (
	"strings"
	"testing"
)

type sampleInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"omitempty,email"`
	Quantity int    `validate:"required,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      sampleInput
		wantFields []string
	}{
		{
			name:  "valid input passes",
			input: sampleInput{Name: "ORS", Quantity: 10},
		},
		{
			name:       "missing required field",
			input:      sampleInput{Quantity: 5},
			wantFields: []string{"Name"},
		},
		{
			name:       "non-positive quantity",
			input:      sampleInput{Name: "ORS", Quantity: 0},
			wantFields: []string{"Quantity"},
		},
		{
			name:       "multiple failures collected",
			input:      sampleInput{Email: "not-an-email"},
			wantFields: []string{"Name", "Email", "Quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateStruct = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateStruct = nil, want failures on %v", tt.wantFields)
			}
			if len(verr.Fields()) != len(tt.wantFields) {
				t.Fatalf("got %d failures, want %d: %v", len(verr.Fields()), len(tt.wantFields), verr)
			}
			for i, fe := range verr.Fields() {
				if fe.Field != tt.wantFields[i] {
					t.Errorf("field[%d] = %q, want %q", i, fe.Field, tt.wantFields[i])
				}
				if fe.Message == "" {
					t.Errorf("field %q has no message", fe.Field)
				}
			}
		})
	}
}

func TestErrorsDetails(t *testing.T) {
	verr := ValidateStruct(sampleInput{Name: "x", Quantity: -1})
	if verr == nil {
		t.Fatal("expected a validation failure")
	}

	details := verr.Details()
	if details["field"] != "Quantity" {
		t.Errorf("details = %v, want single-failure shape with field Quantity", details)
	}
	if !strings.Contains(verr.Error(), "Quantity") {
		t.Errorf("Error() = %q, want mention of Quantity", verr.Error())
	}
}

func TestNewFieldErrors(t *testing.T) {
	verr := NewFieldErrors("village", "village is required")
	if verr.Error() != "village is required" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if verr.Details()["field"] != "village" {
		t.Errorf("Details() = %v, want field village", verr.Details())
	}
}
