// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package validation provides struct validation using go-playground/validator
// v10 behind a thread-safe singleton. Request structs declare their rules via
// `validate` tags and handlers call ValidateStruct before touching the
// engines, so malformed input is rejected with a structured reason and the
// shared state is never mutated.
//
//	type VoteRequest struct {
//	    Winner string `json:"winner" validate:"required"`
//	    Loser  string `json:"loser" validate:"required,nefield=Winner"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the singleton validator, initializing it on first use.
// The validator caches struct metadata, so sharing one instance is both
// faster and the documented usage pattern.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// RequestValidationError aggregates all field failures for one request.
type RequestValidationError struct {
	fields []FieldError
}

// Error implements the error interface.
func (e *RequestValidationError) Error() string {
	msgs := make([]string, len(e.fields))
	for i, f := range e.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the individual field failures.
func (e *RequestValidationError) Fields() []FieldError {
	return e.fields
}

// ToAPIError converts the validation failure to the API error envelope.
func (e *RequestValidationError) ToAPIError() *models.APIError {
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: e.Error(),
		Details: e.fields,
	}
}

// ValidateStruct validates a struct against its `validate` tags.
// Returns nil when valid, or a *RequestValidationError describing every
// failing field.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return &RequestValidationError{fields: []FieldError{{
			Field:   "",
			Tag:     "invalid",
			Message: "invalid value passed to validation",
		}}}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{fields: []FieldError{{
			Field:   "",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: messageFor(fe),
		})
	}
	return &RequestValidationError{fields: fields}
}

// messageFor builds a human-readable message for a field error.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on %s", fe.Field(), fe.Tag())
	}
}
