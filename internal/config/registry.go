package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "formwiz"
	configFile = "config.yaml"

	// Environment overrides, applied after the file is loaded.
	EndpointEnvVar = "FORMWIZ_ENDPOINT"
	LogLevelEnvVar = "FORMWIZ_LOG_LEVEL"
	LogFileEnvVar  = "FORMWIZ_LOG_FILE"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/formwiz or $HOME/.config/formwiz
//   - macOS: $HOME/.config/formwiz
//   - Windows: %LOCALAPPDATA%\formwiz
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the settings file from its default location and applies
// environment overrides. A missing file yields defaults.
func Load() (*Settings, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	s, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	s.ApplyEnv()
	return s, nil
}

// LoadFrom reads settings from path without applying environment
// overrides. A missing file yields defaults.
func LoadFrom(path string) (*Settings, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if s.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}

	s.fillDefaults()
	return &s, nil
}

// ApplyEnv overrides settings from FORMWIZ_* environment variables.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EndpointEnvVar); v != "" {
		s.Gateway.Endpoint = v
	}
	if v := os.Getenv(LogLevelEnvVar); v != "" {
		s.Logging.Level = v
	}
	if v := os.Getenv(LogFileEnvVar); v != "" {
		s.Logging.File = v
	}
}

// Save writes the settings to the default location.
func (s *Settings) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return s.SaveTo(configPath)
}

// SaveTo writes the settings to path.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) SaveTo(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# formwiz configuration file
# Environment variables FORMWIZ_ENDPOINT, FORMWIZ_LOG_LEVEL and
# FORMWIZ_LOG_FILE override the values below.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes a default settings file unless one exists.
// It returns the path written.
func CreateDefaultConfig(force bool) (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}
	return configPath, NewSettings().SaveTo(configPath)
}
