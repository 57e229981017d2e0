package globals

import (
	"context"
	"log/slog"
	"time"
)

// SyncEvent describes one persist or hydrate attempt.
type SyncEvent struct {
	Op      string
	Key     string
	Backend string
	Codec   string
	Trigger string
	// Variables and Switches count the cells written (persist) or applied
	// (hydrate).
	Variables int
	Switches  int
	// Absent is set when hydrate found nothing stored.
	Absent   bool
	Duration time.Duration
	Err      error
}

// Logger records sync events.
type Logger interface {
	LogSync(SyncEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(SyncEvent)

// LogSync implements Logger.
func (f LoggerFunc) LogSync(event SyncEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogSync(SyncEvent) {}

// SlogLogger writes sync events to logger: failures at error level,
// everything else at debug.
func SlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return LoggerFunc(func(event SyncEvent) {
		attrs := []slog.Attr{
			slog.String("op", event.Op),
			slog.String("key", event.Key),
			slog.String("backend", event.Backend),
			slog.String("codec", event.Codec),
			slog.Int("variables", event.Variables),
			slog.Int("switches", event.Switches),
			slog.Duration("duration", event.Duration),
		}
		if event.Trigger != "" {
			attrs = append(attrs, slog.String("trigger", event.Trigger))
		}
		if event.Absent {
			attrs = append(attrs, slog.Bool("absent", true))
		}
		if event.Err != nil {
			attrs = append(attrs, slog.String("error", event.Err.Error()))
			logger.LogAttrs(context.Background(), slog.LevelError, "globals sync failed", attrs...)
			return
		}
		logger.LogAttrs(context.Background(), slog.LevelDebug, "globals sync", attrs...)
	})
}

// EvaluatorLogEvent describes a query evaluation attempt.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}
