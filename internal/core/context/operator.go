// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// OperatorContext identifies who is performing warehouse operations.
// The value comes from the X-Operator header; there is no authentication
// layer, the name is recorded for traceability in the stock ledger.
type OperatorContext struct {
	Name       string
	Department string
}

type operatorContextKey struct{}

// WithOperator adds OperatorContext to context.
func WithOperator(ctx context.Context, op *OperatorContext) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// GetOperator returns OperatorContext from context.
func GetOperator(ctx context.Context) *OperatorContext {
	if v, ok := ctx.Value(operatorContextKey{}).(*OperatorContext); ok {
		return v
	}
	return nil
}

// GetOperatorName returns the operator name from context or empty string.
func GetOperatorName(ctx context.Context) string {
	if o := GetOperator(ctx); o != nil {
		return o.Name
	}
	return ""
}
