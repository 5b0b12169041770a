package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/muurk/formwiz/internal/gateway"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join(dir, "formwiz") {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, filepath.Join(dir, "formwiz"))
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", s.Version, CurrentVersion)
	}
	if s.Gateway.Endpoint != gateway.DefaultEndpoint {
		t.Errorf("Endpoint = %q", s.Gateway.Endpoint)
	}
	if s.Gateway.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", s.Gateway.Timeout())
	}
	if s.Gateway.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", s.Gateway.MaxRetries)
	}
	if !s.Wizard.AltScreen {
		t.Error("AltScreen should default to true")
	}
	if s.Logging.Level != "" {
		t.Error("logging should be off by default")
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if diff := cmp.Diff(NewSettings(), s); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := NewSettings()
	s.Gateway.Endpoint = "http://localhost:8080"
	s.Gateway.MaxRetries = 2
	s.Logging.Level = "debug"
	s.Wizard.Output = "/tmp/out.json"
	s.RememberGateway("lab", "http://10.0.0.5:8080", "form_001")

	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# formwiz configuration file") {
		t.Error("saved file should start with the header comment")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not survive a successful save")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if diff := cmp.Diff(s, loaded, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad version", "version: 2\n", "unsupported config version"},
		{"bad yaml", "version: [\n", "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFrom() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFrom_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\ngateway:\n  endpoint: http://example.test\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Gateway.Endpoint != "http://example.test" {
		t.Errorf("Endpoint = %q", s.Gateway.Endpoint)
	}
	if s.Gateway.TimeoutSeconds != 30 || s.Discovery.TimeoutSeconds != 5 {
		t.Errorf("defaults not filled: %+v %+v", s.Gateway, s.Discovery)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EndpointEnvVar, "http://env.test")
	t.Setenv(LogLevelEnvVar, "warn")
	t.Setenv(LogFileEnvVar, "/tmp/formwiz.log")

	s := NewSettings()
	s.ApplyEnv()

	want := &LoggingPrefs{Level: "warn", File: "/tmp/formwiz.log"}
	if diff := cmp.Diff(want, s.Logging); diff != "" {
		t.Errorf("Logging mismatch (-want +got):\n%s", diff)
	}
	if s.Gateway.Endpoint != "http://env.test" {
		t.Errorf("Endpoint = %q", s.Gateway.Endpoint)
	}
}

func TestNewGatewayClient(t *testing.T) {
	prefs := &GatewayPrefs{Endpoint: "http://x.test/", TimeoutSeconds: 7, MaxRetries: 3, RetryDelayMS: 250}
	client := prefs.NewGatewayClient()

	if client.BaseURL != "http://x.test" {
		t.Errorf("BaseURL = %q", client.BaseURL)
	}
	if client.HTTPClient.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v", client.HTTPClient.Timeout)
	}
	if client.MaxRetries != 3 || client.RetryDelay != 250*time.Millisecond {
		t.Errorf("retry = %d/%v", client.MaxRetries, client.RetryDelay)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := CreateDefaultConfig(false); err == nil {
		t.Error("second CreateDefaultConfig() without force should fail")
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Errorf("CreateDefaultConfig(force) error = %v", err)
	}
}
