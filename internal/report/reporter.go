package report

import (
	"context"
	"log/slog"
)

const Component = "netcheck"

// Logger writes one structured record per report.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Report(ctx context.Context, topic string, table Table, correlationID string) {
	passed, failed := table.Counts()

	level := slog.LevelInfo
	if failed > 0 {
		level = slog.LevelWarn
	}

	l.logger.Log(ctx, level, topic,
		slog.String("correlation_id", correlationID),
		slog.Any("results", table),
		slog.Group("meta",
			slog.String("component", Component),
			slog.Int("checks", len(table)),
			slog.Int("passed", passed),
			slog.Int("failed", failed),
		),
	)
}
