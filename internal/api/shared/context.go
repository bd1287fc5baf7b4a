package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of hex characters in a trace ID
	TraceIDLength = 32
)

var fallbackCounter atomic.Uint32

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// WithTraceID adds the given trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a random version 4 UUID as 32 lowercase hex characters.
// If the random source fails it falls back to a time-based ID, never a static value.
func NewTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("failed to generate random trace ID",
			"error", err,
			"fallback", "time-based generation")
		return fallbackTraceID()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// fallbackTraceID combines the current time with a process-wide counter so that
// two IDs generated in the same nanosecond still differ.
func fallbackTraceID() string {
	b := make([]byte, TraceIDLength/2)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], fallbackCounter.Add(1))
	binary.BigEndian.PutUint32(b[12:16], uint32(time.Now().Unix()))
	return hex.EncodeToString(b)
}

// IsTraceID reports whether s has the shape of a trace ID.
func IsTraceID(s string) bool {
	if len(s) != TraceIDLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
