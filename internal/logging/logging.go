// Package logging configures the process-wide slog logger and defines the
// corpus engine's structured log events.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey struct{}

// generationKey carries the engine initialization generation.
var generationKey contextKey

var defaultLogger *slog.Logger

func init() {
	InitLogger(LevelInfo, FormatJSON)
}

// Level is a log level name accepted on the command line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a Level. Unknown names yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format is the handler used for log output.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

// ParseFormat maps a format name to a Format. Anything but "text" is JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "text") {
		return FormatText
	}
	return FormatJSON
}

// InitLogger initializes the global logger with the specified level and format.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// Or returns l when non-nil, otherwise the global logger.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return defaultLogger
}

// WithGeneration tags ctx with an engine initialization generation.
func WithGeneration(ctx context.Context, gen uint64) context.Context {
	return context.WithValue(ctx, generationKey, gen)
}

// Generation returns the generation stored in ctx.
func Generation(ctx context.Context) (uint64, bool) {
	gen, ok := ctx.Value(generationKey).(uint64)
	return gen, ok
}

// LoggerFromContext returns l, or the global logger, with the generation in
// ctx attached.
func LoggerFromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	logger := Or(l)
	if gen, ok := Generation(ctx); ok {
		logger = logger.With("generation", gen)
	}
	return logger
}

// SourceSkipped logs a source that contributed nothing to the corpus.
func SourceSkipped(l *slog.Logger, source, stage string, err error, args ...any) {
	allArgs := []any{
		"source", source,
		"stage", stage,
	}
	if err != nil {
		allArgs = append(allArgs, "error", err.Error())
	}
	allArgs = append(allArgs, args...)
	Or(l).Warn("source_skipped", allArgs...)
}

// UnresolvedBook logs a source book name that matched no canonical book.
func UnresolvedBook(l *slog.Logger, name string, occurrences int) {
	Or(l).Warn("unresolved_book",
		"name", name,
		"occurrences", occurrences,
	)
}

// CorpusBuilt logs the outcome of a corpus build.
func CorpusBuilt(l *slog.Logger, buildID string, verses, real int, quality float64, duration time.Duration, args ...any) {
	allArgs := []any{
		"build_id", buildID,
		"verses", verses,
		"real_verses", real,
		"quality_pct", quality,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	Or(l).Info("corpus_built", allArgs...)
}

// LowQuality logs a corpus whose genuine share fell under the threshold.
// This usually means source ingestion failed silently.
func LowQuality(l *slog.Logger, quality, threshold float64, args ...any) {
	allArgs := []any{
		"quality_pct", quality,
		"threshold_pct", threshold,
	}
	allArgs = append(allArgs, args...)
	Or(l).Warn("corpus_low_quality", allArgs...)
}

// CacheEvent logs persistent cache activity.
func CacheEvent(l *slog.Logger, event, key string, args ...any) {
	allArgs := []any{
		"event", event,
		"key", key,
	}
	allArgs = append(allArgs, args...)
	Or(l).Debug("cache_event", allArgs...)
}
