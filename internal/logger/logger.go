// internal/logger/logger.go
package logger

import (
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	sugared = base.Sugar()
)

// Init configures the package logger to write to output. It may be called
// again to replace the configuration; a nil output discards everything.
func Init(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	l := newLogger(cfg, zapcore.AddSync(output))

	mu.Lock()
	old := base
	base = l
	sugared = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	mu.Unlock()

	_ = old.Sync()
	l.Info("Logger initialized", zap.String("level", cfg.Level().String()))
}

// newLogger builds a zap logger writing through the filtering core.
func newLogger(cfg Config, out zapcore.WriteSyncer) *zap.Logger {
	cfg.process()

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), out, cfg.level)
	return zap.New(newFilterCore(core, &cfg), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugared
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// DebugTagf logs a debug message carrying a tag that the tag filters match against.
func DebugTagf(tag string, format string, args ...interface{}) {
	current().With(zap.String(tagKey, tag)).Debugf(format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Get retrieves the configured logger instance.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() {
	_ = Get().Sync()
}
