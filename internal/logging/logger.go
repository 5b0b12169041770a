package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

const (
	// LogLevelEnvVar controls logging verbosity.
	// When unset or empty, logging is silent (no zap output).
	// Valid values: "debug", "info", "warn", "error"
	LogLevelEnvVar = "FORMWIZ_LOG_LEVEL"

	// LogFileEnvVar names a file that receives log output instead of stdout.
	LogFileEnvVar = "FORMWIZ_LOG_FILE"
)

// Options selects the level and destination of the logger.
// Empty fields fall back to the environment.
type Options struct {
	Level string
	File  string
}

// Initialize creates the global logger.
// If neither the options nor the environment name a level, logging is
// disabled (silent mode).
func Initialize(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	file := opts.File
	if file == "" {
		file = os.Getenv(LogFileEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if file != "" {
		// Colour escapes are noise in a file.
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.OutputPaths = []string{file}
		config.ErrorOutputPaths = []string{file}
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes the logger purely from FORMWIZ_LOG_LEVEL
// and FORMWIZ_LOG_FILE.
func InitializeFromEnv() error {
	return Initialize(Options{})
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized so nothing leaks into the TUI.
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogGatewayRequest logs an outgoing gateway request
func LogGatewayRequest(method, url string, bodyLen int) {
	Info("Gateway request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("body_length", bodyLen),
	)
}

// LogGatewayResponse logs a gateway response
func LogGatewayResponse(method, url string, statusCode int, body []byte) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Int("length", len(body)),
	}

	if GetLogger().Core().Enabled(zapcore.DebugLevel) {
		fields = append(fields, zap.String("body", truncate(body, 512)))
	}

	Info("Gateway response", fields...)
}

// LogTransition logs a wizard section transition
func LogTransition(from, to int, outcome string) {
	Debug("Section transition",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.String("outcome", outcome),
	)
}

// LogServedRequest logs a request handled by the development gateway
func LogServedRequest(remoteAddr, method, path string, statusCode int) {
	Info("HTTP request served",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
	)
}

func truncate(data []byte, limit int) string {
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
