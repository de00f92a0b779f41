package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every record logged with a context carrying them.
type LogFields struct {
	RequestID   *string // X-Request-ID of the inbound call
	UserID      *string // Resolved caller identity
	WorkspaceID *int64  // Workspace the operation targets
	Component   string  // Component name, e.g. "planie.service.workspace"
}

// WithLogFields enriches ctx with structured log fields.
// Multiple calls merge fields, newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields stored on ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, update LogFields) LogFields {
	result := existing

	if update.RequestID != nil {
		result.RequestID = update.RequestID
	}
	if update.UserID != nil {
		result.UserID = update.UserID
	}
	if update.WorkspaceID != nil {
		result.WorkspaceID = update.WorkspaceID
	}
	if update.Component != "" {
		result.Component = update.Component
	}

	return result
}

// Ptr returns a pointer to v.
// Useful inline: logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
