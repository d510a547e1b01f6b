package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// base is the root logger. Module loggers obtained before Initialize stay
// silent until the root gets a zap backend.
var base = &zapLogger{}

// A Logger writes key/value structured logs.
type Logger interface {
	Error(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Debug(msg string, kv ...interface{})
	// With returns a child logger carrying the given key/value pairs
	With(kv ...interface{}) Logger
	Sync() error
}

type zapLogger struct {
	zap    *zap.SugaredLogger
	kv     []interface{}
	parent *zapLogger
}

func (l *zapLogger) Error(msg string, kv ...interface{}) {
	if l.ready() {
		l.zap.Errorw(msg, kv...)
	}
}

func (l *zapLogger) Warn(msg string, kv ...interface{}) {
	if l.ready() {
		l.zap.Warnw(msg, kv...)
	}
}

func (l *zapLogger) Info(msg string, kv ...interface{}) {
	if l.ready() {
		l.zap.Infow(msg, kv...)
	}
}

func (l *zapLogger) Debug(msg string, kv ...interface{}) {
	if l.ready() {
		l.zap.Debugw(msg, kv...)
	}
}

func (l *zapLogger) Sync() error {
	if !l.ready() {
		return errors.New("logger not initialized")
	}
	return l.zap.Sync()
}

func (l *zapLogger) With(kv ...interface{}) Logger {
	return &zapLogger{kv: kv, parent: l}
}

// ready walks up to the first ancestor with a zap backend and derives this
// logger's backend from it.
func (l *zapLogger) ready() bool {
	if l.zap != nil {
		return true
	}
	if l.parent == nil || !l.parent.ready() {
		return false
	}
	l.zap = l.parent.zap.With(l.kv...)
	return true
}

// Initialize builds the root zap logger. Unknown levels fall back to info.
func Initialize(level string, debug bool) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		fmt.Printf("invalid log level %q, falling back to info\n", level)
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl

	z, err := cfg.Build()
	if err != nil {
		return err
	}
	base.zap = z.Sugar()
	return nil
}

// UseZap installs an existing zap logger as root, mostly for tests.
func UseZap(z *zap.Logger) {
	base.zap = z.Sugar()
}

// GetLogger returns the logger of the given module.
func GetLogger(module string) Logger {
	return base.With("module", module)
}
