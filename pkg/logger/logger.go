// Package logger provides the process-wide structured logging facade,
// backed by zap.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Level string
	Env   string
}

var base = zap.NewNop().Sugar()

// Init initializes the global logger. Production env gets JSON output,
// anything else the development console encoder.
func Init(cfg Config) error {
	var zcfg zap.Config
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	base = l.Sugar()
	return nil
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = base.Sync()
}

func Debug(msg string)                          { base.Debug(msg) }
func Debugf(format string, args ...interface{}) { base.Debugf(format, args...) }
func Info(msg string)                           { base.Info(msg) }
func Infof(format string, args ...interface{})  { base.Infof(format, args...) }
func Warn(msg string)                           { base.Warn(msg) }
func Warnf(format string, args ...interface{})  { base.Warnf(format, args...) }
func Error(msg string)                          { base.Error(msg) }
func Errorf(format string, args ...interface{}) { base.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { base.Fatalf(format, args...) }

// WithFields returns a logger with structured key/value context.
func WithFields(fields map[string]interface{}) *zap.SugaredLogger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return base.With(kv...)
}

// HTTP logs one handled request.
func HTTP(method, path string, status int, latencyMs int64) {
	base.With("method", method, "path", path, "status", status, "latency_ms", latencyMs).
		Infof("HTTP %s %s %d", method, path, status)
}
