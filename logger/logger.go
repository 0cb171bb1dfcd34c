// Package logger provides structured logging for the service.
package logger

import (
	"errors"

	"github.com/code19m/errx"
	"go.uber.org/zap"
)

// Logger is the logging interface used across the service.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string)
	// Info logs a message at info level.
	Info(msg string)
	// Warn logs a message at warn level.
	Warn(msg string)
	// Error logs a message at error level.
	Error(msg string)
	// Fatal logs a message at fatal level and then calls os.Exit(1).
	Fatal(msg string)

	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)

	// Warnx logs an errx.ErrorX with its code, type and details at warn level.
	Warnx(err error)
	// Errorx logs an errx.ErrorX with its code, type and details at error level.
	Errorx(err error)
	// Fatalx logs an errx.ErrorX at fatal level and then calls os.Exit(1).
	Fatalx(err error)

	// With returns a logger that includes the given key-value pairs in
	// every entry.
	With(keysAndValues ...any) Logger
	// Named adds a sub-scope to the logger's name.
	Named(name string) Logger

	// Sync flushes buffered entries; call on shutdown.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

// New creates a Logger with the provided configuration.
func New(cfg Config) (Logger, error) {
	zapCfg, err := cfg.getZapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	zl, err := zapCfg.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &logger{zl.Sugar()}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

func (l *logger) Debug(msg string) { l.SugaredLogger.Debug(msg) }
func (l *logger) Info(msg string)  { l.SugaredLogger.Info(msg) }
func (l *logger) Warn(msg string)  { l.SugaredLogger.Warn(msg) }
func (l *logger) Error(msg string) { l.SugaredLogger.Error(msg) }
func (l *logger) Fatal(msg string) { l.SugaredLogger.Fatal(msg) }

func (l *logger) Warnx(err error) {
	l.withErrFields(err).Warn(err.Error())
}

func (l *logger) Errorx(err error) {
	l.withErrFields(err).Error(err.Error())
}

func (l *logger) Fatalx(err error) {
	l.withErrFields(err).Fatal(err.Error())
}

func (l *logger) withErrFields(err error) *zap.SugaredLogger {
	var e errx.ErrorX
	if errors.As(err, &e) {
		return l.SugaredLogger.With(
			"error_code", e.Code(),
			"error_type", e.Type().String(),
			"error_details", e.Details(),
		)
	}
	return l.SugaredLogger
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{l.SugaredLogger.With(keysAndValues...)}
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

func (l *logger) Sync() error {
	return l.SugaredLogger.Sync()
}
