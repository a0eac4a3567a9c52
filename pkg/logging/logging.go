// Package logging provides a context-aware structured logger backed by zap.
//
// The variadic arguments to each method are key-value pairs:
//
//	log.Info(ctx, "uploaded", "name", name, "path", path)
package logging

import (
	"context"

	// Packages
	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Logger is a context-aware, structured logger
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger which always includes the key-value pairs
	With(args ...any) Logger
}

type zaplogger struct {
	l *zap.SugaredLogger
}

var _ Logger = (*zaplogger)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a JSON logger writing to stderr. When debug is true, a console
// logger at debug level is returned instead.
func New(debug bool) (Logger, error) {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zaplogger{logger.Sugar()}, nil
}

// NewZap wraps an existing zap logger
func NewZap(logger *zap.Logger) Logger {
	return &zaplogger{logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// Nop returns a logger which discards everything
func Nop() Logger {
	return &zaplogger{zap.NewNop().Sugar()}
}

// Sync flushes any buffered entries
func Sync(logger Logger) error {
	if z, ok := logger.(*zaplogger); ok {
		return z.l.Sync()
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (z *zaplogger) Debug(_ context.Context, msg string, args ...any) {
	z.l.Debugw(msg, args...)
}

func (z *zaplogger) Info(_ context.Context, msg string, args ...any) {
	z.l.Infow(msg, args...)
}

func (z *zaplogger) Warn(_ context.Context, msg string, args ...any) {
	z.l.Warnw(msg, args...)
}

func (z *zaplogger) Error(_ context.Context, msg string, args ...any) {
	z.l.Errorw(msg, args...)
}

func (z *zaplogger) With(args ...any) Logger {
	return &zaplogger{z.l.With(args...)}
}
