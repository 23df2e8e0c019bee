package database

import (
	"context"
	"log/slog"

	sqldblogger "github.com/simukti/sqldb-logger"
)

type queryLogger struct {
	logger *slog.Logger
}

func (q *queryLogger) Log(ctx context.Context, level sqldblogger.Level, msg string, data map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(data))
	for k, v := range data {
		attrs = append(attrs, slog.Any(k, v))
	}

	q.logger.LogAttrs(ctx, slogLevel(level), msg, attrs...)
}

func slogLevel(level sqldblogger.Level) slog.Level {
	switch level {
	case sqldblogger.LevelError:
		return slog.LevelError
	case sqldblogger.LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

var _ sqldblogger.Logger = (*queryLogger)(nil)
