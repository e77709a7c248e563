package logging

import "context"

type contextKey string

const (
	// OperationIDKey is the context key for editor operation IDs.
	OperationIDKey contextKey = "op_id"

	// OperationKey is the context key for the operation name.
	OperationKey contextKey = "operation"

	// VersionKey is the context key for the HL7 version in use.
	VersionKey contextKey = "hl7_version"

	// FileKey is the context key for the file being processed.
	FileKey contextKey = "file"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithOperationID adds an operation ID to the context.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OperationIDKey, id)
}

// GetOperationID retrieves the operation ID from the context.
func GetOperationID(ctx context.Context) string {
	return stringValue(ctx, OperationIDKey)
}

// WithOperation adds an operation name such as "inspect" to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, OperationKey, op)
}

// GetOperation retrieves the operation name from the context.
func GetOperation(ctx context.Context) string {
	return stringValue(ctx, OperationKey)
}

// WithVersion adds the HL7 version to the context.
func WithVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, VersionKey, version)
}

// GetVersion retrieves the HL7 version from the context.
func GetVersion(ctx context.Context) string {
	return stringValue(ctx, VersionKey)
}

// WithFile adds a file name to the context.
func WithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, FileKey, file)
}

// GetFile retrieves the file name from the context.
func GetFile(ctx context.Context) string {
	return stringValue(ctx, FileKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, TraceIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns the context values as log arguments.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range []contextKey{OperationIDKey, OperationKey, VersionKey, FileKey, TraceIDKey} {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
