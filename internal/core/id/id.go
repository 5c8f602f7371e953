// Package id provides identifier generation for ledger records.
// Identifiers are UUIDv7 strings, optionally prefixed with a provenance tag
// ("inc-", "exp-", "book-", "corr-", "sal-"). The tag is informational only.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return v
}

// NewString returns New() in canonical string form.
func NewString() string {
	return New().String()
}

// Tagged returns "<tag>-<uuidv7>". Extra parts are joined with "-" before the uuid.
func Tagged(tag string, parts ...string) string {
	var b strings.Builder
	b.WriteString(tag)
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteByte('-')
		b.WriteString(p)
	}
	b.WriteByte('-')
	b.WriteString(NewString())
	return b.String()
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
