package status

import (
	"context"
	"log/slog"

	"github.com/ytget/ytmp3/internal/model"
)

// Log writes every adapter call to a structured logger
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log adapter
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Message(kind model.JobKind, msg string) {
	l.logger.Info("status", "kind", kind, "message", msg)
}

func (l *Log) Prompt(kind model.JobKind, title, msg string, severity model.Severity) {
	level := slog.LevelInfo
	switch severity {
	case model.SeverityWarning:
		level = slog.LevelWarn
	case model.SeverityError:
		level = slog.LevelError
	}
	l.logger.Log(context.Background(), level, title, "kind", kind, "message", msg)
}

func (l *Log) SetEnabled(kind model.JobKind, enabled bool) {
	l.logger.Debug("trigger state", "kind", kind, "enabled", enabled)
}
