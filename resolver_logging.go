package lexicon

import (
	"context"
	"log/slog"
	"time"
)

// ResolutionLogEvent describes one Resolver call for logging.
type ResolutionLogEvent struct {
	Operation string
	Key       string
	Found     bool
	Status    Status
	Visited   int
	Duration  time.Duration
	Err       error
}

// ResolutionLogger records resolution events.
type ResolutionLogger interface {
	LogResolution(ResolutionLogEvent)
}

// ResolutionLoggerFunc adapts a function to ResolutionLogger.
type ResolutionLoggerFunc func(ResolutionLogEvent)

// LogResolution implements ResolutionLogger.
func (f ResolutionLoggerFunc) LogResolution(event ResolutionLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopResolutionLogger struct{}

func (noopResolutionLogger) LogResolution(ResolutionLogEvent) {}

// SlogResolutionLogger writes events to logger at debug level, or at error
// level when the call failed.
func SlogResolutionLogger(logger *slog.Logger) ResolutionLogger {
	if logger == nil {
		return noopResolutionLogger{}
	}
	return ResolutionLoggerFunc(func(event ResolutionLogEvent) {
		attrs := []slog.Attr{
			slog.String("operation", event.Operation),
			slog.String("key", event.Key),
			slog.Bool("found", event.Found),
			slog.String("status", event.Status.String()),
			slog.Int("visited", event.Visited),
			slog.Duration("duration", event.Duration),
		}
		if event.Err != nil {
			attrs = append(attrs, slog.Any("error", event.Err))
			logger.LogAttrs(context.Background(), slog.LevelError, "lexicon resolution failed", attrs...)
			return
		}
		logger.LogAttrs(context.Background(), slog.LevelDebug, "lexicon resolution", attrs...)
	})
}
