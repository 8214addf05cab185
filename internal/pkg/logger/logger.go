package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global atomic.Pointer[zap.SugaredLogger]

func init() {
	global.Store(zap.NewNop().Sugar())
}

// Init настраивает глобальный логгер.
func Init(level string, dev bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	global.Store(l.Sugar())
	return nil
}

// Set replaces the global logger. Used by tests with zaptest/observer loggers.
func Set(l *zap.Logger) {
	global.Store(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

func Sync() {
	_ = global.Load().Sync()
}

// WithFields returns a context carrying extra fields for every log line made with it.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	prev, _ := ctx.Value(ctxKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func fromCtx(ctx context.Context) *zap.SugaredLogger {
	l := global.Load()
	if ctx == nil {
		return l
	}
	fields, ok := ctx.Value(ctxKey{}).([]zap.Field)
	if !ok || len(fields) == 0 {
		return l
	}
	return l.Desugar().With(fields...).Sugar()
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Errorf(format, args...)
}

func Error(ctx context.Context, args ...interface{}) {
	fromCtx(ctx).Error(args...)
}

func Fatal(ctx context.Context, args ...interface{}) {
	fromCtx(ctx).Fatal(args...)
}
