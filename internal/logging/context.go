package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTitleID is the standardized structured logging key for catalog title identifiers.
	FieldTitleID = "title_id"
	// FieldProvider is the standardized structured logging key for metadata provider names.
	FieldProvider = "provider"
	// FieldOperation is the standardized structured logging key for engine operation names.
	FieldOperation = "operation"
	// FieldSweepID is the standardized structured logging key for enrichment sweep identifiers.
	FieldSweepID = "sweep_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries an operator-facing next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey string

const (
	titleIDKey   contextKey = "title_id"
	operationKey contextKey = "operation"
	sweepIDKey   contextKey = "sweep_id"
)

// WithTitleID annotates context with the catalog title identifier.
func WithTitleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, titleIDKey, id)
}

// TitleIDFromContext extracts the catalog title identifier if present.
func TitleIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(titleIDKey).(string)
	return v, ok && v != ""
}

// WithOperation annotates context with the engine operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operationKey).(string)
	return v, ok && v != ""
}

// WithSweepID annotates context with the enrichment sweep identifier.
func WithSweepID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sweepIDKey, id)
}

// SweepIDFromContext returns the sweep identifier if present.
func SweepIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sweepIDKey).(string)
	return v, ok && v != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := TitleIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTitleID, id))
	}
	if op, ok := OperationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOperation, op))
	}
	if sweep, ok := SweepIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSweepID, sweep))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
