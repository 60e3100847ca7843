package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for index run IDs.
	RunIDKey contextKey = "run_id"

	// MapPathKey is the context key for the map file being processed.
	MapPathKey contextKey = "map"

	// TriggerKey is the context key for what started a run
	// ("cli", "watch", "schedule").
	TriggerKey contextKey = "trigger"
)

// WithRunID adds an index run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the index run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithMapPath adds the map file path to the context.
func WithMapPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, MapPathKey, path)
}

// GetMapPath retrieves the map file path from the context.
func GetMapPath(ctx context.Context) string {
	if path, ok := ctx.Value(MapPathKey).(string); ok {
		return path
	}
	return ""
}

// WithTrigger records what started the current run.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the run trigger from the context.
func GetTrigger(ctx context.Context) string {
	if trigger, ok := ctx.Value(TriggerKey).(string); ok {
		return trigger
	}
	return ""
}

// extractContextFields returns the known fields in ctx as slog key/value args.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if v := GetRunID(ctx); v != "" {
		fields = append(fields, string(RunIDKey), v)
	}
	if v := GetTrigger(ctx); v != "" {
		fields = append(fields, string(TriggerKey), v)
	}
	if v := GetMapPath(ctx); v != "" {
		fields = append(fields, string(MapPathKey), v)
	}
	return fields
}
