// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"time"
)

// Operator describes the authenticated owner/operator of the dashboard.
type Operator struct {
	Subject   string
	SessionID string
	ExpiresAt time.Time
}

type operatorContextKey struct{}

// WithOperator adds Operator to context.
func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// GetOperator returns Operator from context.
func GetOperator(ctx context.Context) *Operator {
	if v, ok := ctx.Value(operatorContextKey{}).(*Operator); ok {
		return v
	}
	return nil
}

// GetSubject returns the operator subject or empty string.
func GetSubject(ctx context.Context) string {
	if op := GetOperator(ctx); op != nil {
		return op.Subject
	}
	return ""
}
