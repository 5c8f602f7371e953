// Package entity holds the contracts shared by every stored record.
package entity

import (
	"context"
	"strings"

	"kopikeliling/internal/core/apperror"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without storage access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identified is implemented by records addressed by an opaque string id.
type Identified interface {
	GetID() string
}

// RequireText fails when value is blank.
func RequireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.NewValidation(field + " is required").WithDetail("field", field)
	}
	return nil
}

// RequireNonNegative fails when value < 0.
func RequireNonNegative(field string, value int64) error {
	if value < 0 {
		return apperror.NewValidation(field+" must not be negative").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return nil
}

// RequirePositive fails when value <= 0.
func RequirePositive(field string, value int64) error {
	if value <= 0 {
		return apperror.NewValidation(field+" must be positive").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
