package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	t.Setenv(LogFileEnvVar, "")

	if err := Initialize(Options{}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formwiz.log")

	if err := Initialize(Options{Level: "debug", File: path}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer SetLogger(nil)

	Info("hello from test", zap.String("k", "v"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestInitializeFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv(LogLevelEnvVar, "warn")
	t.Setenv(LogFileEnvVar, path)

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	defer SetLogger(nil)

	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be filtered at warn level")
	}
	Warn("from env")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "from env") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestLogTransition_DebugOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogTransition(0, 1, "moved")
	if logs.Len() != 0 {
		t.Errorf("transition should log at debug level, got %d info entries", logs.Len())
	}

	LogGatewayRequest("POST", "http://example/create-user", 10)
	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["method"]; got != "POST" {
		t.Errorf("method field = %v, want POST", got)
	}
}
