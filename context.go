package eventsourcing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const (
	commandTypeKey ctxKey = "commandType"
	commandIDKey   ctxKey = "commandID"
	receivedAtKey  ctxKey = "receivedAt"
)

// WithCommand annotates the context with the dispatched command type, a
// fresh dispatch id and the receive time. Dispatch calls it before invoking
// the handler chain.
func WithCommand(ctx context.Context, commandType string) context.Context {
	ctx = context.WithValue(ctx, commandTypeKey, commandType)
	ctx = context.WithValue(ctx, commandIDKey, uuid.New())
	ctx = context.WithValue(ctx, receivedAtKey, now())
	return ctx
}

// CommandTypeFromContext returns the dispatched command type or "" if not
// present.
func CommandTypeFromContext(ctx context.Context) string {
	if v := ctx.Value(commandTypeKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// CommandIDFromContext returns the dispatch id or uuid.Nil if not present.
func CommandIDFromContext(ctx context.Context) uuid.UUID {
	if v := ctx.Value(commandIDKey); v != nil {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// ReceivedAtFromContext returns the dispatch receive time or the zero time
// if not present.
func ReceivedAtFromContext(ctx context.Context) time.Time {
	if v := ctx.Value(receivedAtKey); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
