// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var base atomic.Pointer[slog.Logger]

// SetLogger routes repository and websocket logs through l. The server
// passes its context-aware logger so request and trace ids are attached.
func SetLogger(l *slog.Logger) {
	if l != nil {
		base.Store(l)
	}
}

func logger() *slog.Logger {
	if l := base.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// RepoLogger logs repository writes and failures for one table.
type RepoLogger struct {
	table string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

func (l *RepoLogger) write(ctx context.Context, op string, fields map[string]any) {
	attrs := make([]any, 0, len(fields)+2)
	attrs = append(attrs, slog.String("table", l.table), slog.String("operation", op))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	logger().DebugContext(ctx, "repository "+op, attrs...)
}

// LogCreate logs an insert.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]any) { l.write(ctx, "create", fields) }

// LogUpdate logs an update.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]any) { l.write(ctx, "update", fields) }

// LogDelete logs a delete.
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]any) { l.write(ctx, "delete", fields) }

// LogError logs a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, err error, op string) {
	logger().ErrorContext(ctx, "repository error",
		slog.String("table", l.table),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// WSLogger logs websocket lifecycle events for one hub.
type WSLogger struct {
	hub string
}

// NewWSLogger creates a new WSLogger for the given hub.
func NewWSLogger(hub string) *WSLogger {
	return &WSLogger{hub: hub}
}

// LogConnect logs a new subscriber connection.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint) {
	logger().InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
	)
}

// LogDisconnect logs a closed subscriber connection.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	logger().InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason),
	)
}

// LogError logs a read or write failure on a connection.
func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, eventType string) {
	logger().WarnContext(ctx, "websocket error",
		slog.String("hub", l.hub),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}
