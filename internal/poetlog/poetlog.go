// Package poetlog wraps github.com/luxfi/log with the category filtering
// the CLI's --log-categories flag exposes (spec.md §6): each internal
// subsystem logs through a Category-scoped logger, and categories not
// selected at startup are silently routed to a no-op implementation.
package poetlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/luxfi/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names one of the engine's logging subsystems.
type Category int

const (
	CategoryParser Category = 1 << iota
	CategoryDeliverability
	CategoryStateManager
	CategoryEvaluator
	CategoryReduction
)

var categoryNames = map[string]Category{
	"parser":         CategoryParser,
	"deliverability": CategoryDeliverability,
	"statemanager":   CategoryStateManager,
	"evaluator":      CategoryEvaluator,
	"reduction":      CategoryReduction,
}

// AllCategories is the bitmask selecting every subsystem.
const AllCategories = CategoryParser | CategoryDeliverability | CategoryStateManager | CategoryEvaluator | CategoryReduction

// ParseCategories turns the CLI's --log-categories csv (or "" / "none") into
// a bitmask. Unknown names are reported as an error naming the offender.
func ParseCategories(csv string) (Category, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" || strings.EqualFold(csv, "none") {
		return 0, nil
	}
	var mask Category
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		cat, ok := categoryNames[name]
		if !ok {
			return 0, &UnknownCategoryError{Name: name}
		}
		mask |= cat
	}
	return mask, nil
}

// UnknownCategoryError is returned by ParseCategories for an unrecognized
// category name.
type UnknownCategoryError struct{ Name string }

func (e *UnknownCategoryError) Error() string {
	return "poetlog: unknown log category " + e.Name
}

// Set holds one log.Logger per category, built once at startup from the
// parsed --log-categories mask: selected categories log through base, the
// rest through a no-op logger.
type Set struct {
	loggers map[Category]log.Logger
}

// New builds a Set. base is the real logger (the CLI passes the one
// NewFileLogger returns, pointed at --log-file); enabled is the mask
// returned by ParseCategories.
func New(base log.Logger, enabled Category) *Set {
	noop := NoOp()
	s := &Set{loggers: make(map[Category]log.Logger, 5)}
	for _, cat := range []Category{
		CategoryParser, CategoryDeliverability, CategoryStateManager,
		CategoryEvaluator, CategoryReduction,
	} {
		if enabled&cat != 0 {
			s.loggers[cat] = base
		} else {
			s.loggers[cat] = noop
		}
	}
	return s
}

// For returns the logger for a category.
func (s *Set) For(cat Category) log.Logger { return s.loggers[cat] }

// NoOp returns a logger that discards everything, grounded on the teacher's
// log.NoLog (log/nolog.go): every method is a no-op, letting disabled
// categories cost nothing beyond an interface call.
func NoOp() log.Logger { return noLog{} }

type noLog struct{}

func (noLog) With(ctx ...interface{}) log.Logger { return noLog{} }
func (noLog) New(ctx ...interface{}) log.Logger  { return noLog{} }
func (noLog) Log(level slog.Level, msg string, ctx ...interface{})     {}
func (noLog) Trace(msg string, ctx ...interface{})                     {}
func (noLog) Debug(msg string, ctx ...interface{})                     {}
func (noLog) Info(msg string, ctx ...interface{})                      {}
func (noLog) Warn(msg string, ctx ...interface{})                      {}
func (noLog) Error(msg string, ctx ...interface{})                     {}
func (noLog) Crit(msg string, ctx ...interface{})                      {}
func (noLog) WriteLog(level slog.Level, msg string, attrs ...any)      {}
func (noLog) Enabled(ctx context.Context, level slog.Level) bool       { return false }
func (noLog) Handler() slog.Handler                                    { return nil }
func (noLog) Fatal(msg string, fields ...zap.Field)                    {}
func (noLog) Verbo(msg string, fields ...zap.Field)                    {}
func (n noLog) WithFields(fields ...zap.Field) log.Logger              { return n }
func (n noLog) WithOptions(opts ...zap.Option) log.Logger              { return n }
func (noLog) SetLevel(level slog.Level)                                {}
func (noLog) GetLevel() slog.Level                                     { return slog.Level(0) }
func (noLog) EnabledLevel(lvl slog.Level) bool                         { return false }
func (noLog) StopOnPanic()                                             {}
func (noLog) RecoverAndPanic(f func())                                 { f() }
func (noLog) RecoverAndExit(f, exit func())                            { f() }
func (noLog) Stop()                                                    {}
func (noLog) Write(p []byte) (int, error)                              { return len(p), nil }

// NewFileLogger opens path (truncating any prior run's output) and returns a
// log.Logger that writes structured console-encoded lines there, plus a
// closer the caller must invoke when the run ends. An empty path logs to
// stderr instead, matching the teacher's default of always having somewhere
// for Fatal/Crit to surface.
func NewFileLogger(path string) (log.Logger, func() error, error) {
	var w zapcore.WriteSyncer
	closer := func() error { return nil }
	if path == "" {
		w = zapcore.AddSync(os.Stderr)
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("poetlog: %w", err)
		}
		w = zapcore.AddSync(f)
		closer = f.Close
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), w, zapcore.DebugLevel)
	return &zapLogger{l: zap.New(core)}, closer, nil
}

// zapLogger adapts a plain *zap.Logger to log.Logger's larger surface: the
// logging methods (Log, Trace, Debug, Info, Warn, Error, Crit, Fatal, Verbo,
// Write) and With/WithFields/WithOptions forward to zap; the level and
// panic-handling hooks do no real work.
type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) fields(ctx []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, ctx[i+1]))
	}
	return fields
}

func (z *zapLogger) With(ctx ...interface{}) log.Logger { return &zapLogger{l: z.l.With(z.fields(ctx)...)} }
func (z *zapLogger) New(ctx ...interface{}) log.Logger  { return z.With(ctx...) }
func (z *zapLogger) Log(level slog.Level, msg string, ctx ...interface{}) {
	switch {
	case level >= slog.LevelError:
		z.l.Error(msg, z.fields(ctx)...)
	case level >= slog.LevelWarn:
		z.l.Warn(msg, z.fields(ctx)...)
	case level >= slog.LevelInfo:
		z.l.Info(msg, z.fields(ctx)...)
	default:
		z.l.Debug(msg, z.fields(ctx)...)
	}
}
func (z *zapLogger) Trace(msg string, ctx ...interface{}) { z.l.Debug(msg, z.fields(ctx)...) }
func (z *zapLogger) Debug(msg string, ctx ...interface{}) { z.l.Debug(msg, z.fields(ctx)...) }
func (z *zapLogger) Info(msg string, ctx ...interface{})  { z.l.Info(msg, z.fields(ctx)...) }
func (z *zapLogger) Warn(msg string, ctx ...interface{})  { z.l.Warn(msg, z.fields(ctx)...) }
func (z *zapLogger) Error(msg string, ctx ...interface{}) { z.l.Error(msg, z.fields(ctx)...) }
func (z *zapLogger) Crit(msg string, ctx ...interface{})  { z.l.Error(msg, z.fields(ctx)...) }
func (z *zapLogger) WriteLog(level slog.Level, msg string, attrs ...any) { z.Log(level, msg, attrs...) }
func (z *zapLogger) Enabled(ctx context.Context, level slog.Level) bool  { return true }
func (z *zapLogger) Handler() slog.Handler                               { return nil }
func (z *zapLogger) Fatal(msg string, fields ...zap.Field)               { z.l.Fatal(msg, fields...) }
func (z *zapLogger) Verbo(msg string, fields ...zap.Field)               { z.l.Debug(msg, fields...) }
func (z *zapLogger) WithFields(fields ...zap.Field) log.Logger {
	return &zapLogger{l: z.l.With(fields...)}
}
func (z *zapLogger) WithOptions(opts ...zap.Option) log.Logger {
	return &zapLogger{l: z.l.WithOptions(opts...)}
}
func (z *zapLogger) SetLevel(level slog.Level)           {}
func (z *zapLogger) GetLevel() slog.Level                { return slog.LevelDebug }
func (z *zapLogger) EnabledLevel(lvl slog.Level) bool    { return true }
func (z *zapLogger) StopOnPanic()                        {}
func (z *zapLogger) RecoverAndPanic(f func())            { f() }
func (z *zapLogger) RecoverAndExit(f, exit func())       { f() }
func (z *zapLogger) Stop()                               { _ = z.l.Sync() }
func (z *zapLogger) Write(p []byte) (int, error)         { z.l.Info(string(p)); return len(p), nil }
