package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies notable log lines for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldExportID identifies one export run across its log lines.
	FieldExportID = "export_id"
	// FieldStep is the plan step kind currently executing.
	FieldStep = "step"
	// FieldMediaID identifies a catalog asset.
	FieldMediaID = "media_id"
	// FieldProject is the project document path.
	FieldProject = "project"
)

type exportIDKey struct{}

// WithExportID returns a context carrying the export run identifier.
func WithExportID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, exportIDKey{}, id)
}

// ExportIDFromContext returns the export run identifier stored in ctx.
func ExportIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(exportIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := ExportIDFromContext(ctx); ok {
		return logger.With(String(FieldExportID, id))
	}
	return logger
}
