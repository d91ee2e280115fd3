package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID tags ctx with the id of the current admin run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithNewRunID tags ctx with a fresh random run id.
func WithNewRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithRunID(ctx, id), id
}

// GetRunID extracts the run id, or "".
func GetRunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}
