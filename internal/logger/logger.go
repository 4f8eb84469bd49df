package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// InitLogging configures the global logger. Output always goes to stderr so
// stdout stays free for the stdio tool transport; when filePath is set, JSON
// lines are appended to that file as well.
func InitLogging(filePath string, level string) {
	var writers []io.Writer
	writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var fileErr error
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, file)
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", filePath).Msg("log file unavailable, logging to stderr only")
	}
}

// SetOutput replaces the logger with one writing JSON lines to w.
func SetOutput(w io.Writer, level zerolog.Level) {
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Get returns the configured logger.
func Get() zerolog.Logger {
	return log
}

// WithRequestID stores a request ID that every log line for ctx will carry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func event(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if id := RequestID(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	return e
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	event(ctx, log.Debug()).Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	event(ctx, log.Info()).Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	event(ctx, log.Warn()).Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	event(ctx, log.Error()).Msgf(format, args...)
}
