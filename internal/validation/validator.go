// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

// Package validation provides struct validation using
// go-playground/validator v10 through a thread-safe singleton instance.
//
// Request and input structs carry `validate` tags; failures translate to
// field-level messages compatible with the VALIDATION_ERROR API format:
//
//	type RecordInput struct {
//	    DiseaseName string       `validate:"required"`
//	    Supplies    []SupplyItem `validate:"dive"`
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Error returns the human-readable message.
func (e *FieldError) Error() string {
	return e.Message
}

// Errors is a collection of field validation failures for one struct.
type Errors struct {
	fields []FieldError
}

// Fields returns the individual field failures.
func (ve *Errors) Fields() []FieldError {
	return ve.fields
}

// Error implements the error interface with a combined message.
func (ve *Errors) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.fields))
	for i, fe := range ve.fields {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// Details returns a map suitable for the APIError details payload.
func (ve *Errors) Details() map[string]interface{} {
	if len(ve.fields) == 1 {
		fe := ve.fields[0]
		return map[string]interface{}{
			"field": fe.Field,
			"tag":   fe.Tag,
			"value": fe.Value,
		}
	}

	fields := make([]map[string]interface{}, len(ve.fields))
	for i, fe := range ve.fields {
		fields[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
	}
	return map[string]interface{}{"fields": fields}
}

// NewFieldErrors builds an Errors value for failures detected outside
// tag-based validation, such as a missing path parameter.
func NewFieldErrors(field, message string) *Errors {
	return &Errors{fields: []FieldError{{
		Field:   field,
		Tag:     "required",
		Message: message,
	}}}
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes.
func ValidateStruct(s interface{}) *Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &Errors{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translateError(fe),
		}
	}
	return &Errors{fields: fields}
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
}

// errorMessageWithParam maps validation tags to templates that include
// the tag parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gt":    "%s must be greater than %s",
	"gte":   "%s must be greater than or equal to %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

// translateError converts a validator.FieldError to a human-readable
// message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
