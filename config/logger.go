package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

// InitLogger builds the service logger at the given level. Output is
// human-readable console encoding with ISO-8601 timestamps; stacktraces are
// captured only when running at debug level, since the chat pipeline logs
// expected collaborator faults at Warn/Error.
func InitLogger(levelStr string) (*zap.Logger, error) {
	level := parseLevel(levelStr)

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = level != zapcore.DebugLevel

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	// Kept for Cleanup to flush on shutdown
	globalLogger = logger
	return logger, nil
}

// parseLevel accepts the LOG_LEVEL spellings used in config files, with
// "warning" as an alias for warn. Unknown values fall back to info.
func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
