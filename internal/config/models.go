package config

import (
	"time"

	"github.com/muurk/formwiz/internal/gateway"
)

// CurrentVersion is the settings file format version.
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version   int                      `yaml:"version"`
	Gateway   *GatewayPrefs            `yaml:"gateway,omitempty"`
	Discovery *DiscoveryPrefs          `yaml:"discovery,omitempty"`
	Logging   *LoggingPrefs            `yaml:"logging,omitempty"`
	Wizard    *WizardPrefs             `yaml:"wizard,omitempty"`
	Known     map[string]*KnownGateway `yaml:"known_gateways,omitempty"` // Keyed by mDNS instance name
}

// GatewayPrefs configures the gateway client.
type GatewayPrefs struct {
	Endpoint       string `yaml:"endpoint"`        // Base URL of the form gateway
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-attempt HTTP timeout
	MaxRetries     int    `yaml:"max_retries"`     // 0 disables retries
	RetryDelayMS   int    `yaml:"retry_delay_ms"`  // Initial backoff delay
}

// DiscoveryPrefs configures mDNS browsing.
type DiscoveryPrefs struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoggingPrefs configures the log output. An empty level keeps logging off.
type LoggingPrefs struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// WizardPrefs configures the terminal wizard.
type WizardPrefs struct {
	AltScreen bool   `yaml:"alt_screen"`
	Output    string `yaml:"output,omitempty"` // Submission file; empty means stdout
}

// KnownGateway remembers a gateway found by discovery.
type KnownGateway struct {
	Endpoint string    `yaml:"endpoint"`
	FormID   string    `yaml:"form_id,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	s := &Settings{Version: CurrentVersion}
	s.fillDefaults()
	return s
}

// fillDefaults initializes any section missing from a loaded file.
func (s *Settings) fillDefaults() {
	if s.Gateway == nil {
		s.Gateway = &GatewayPrefs{}
	}
	if s.Gateway.Endpoint == "" {
		s.Gateway.Endpoint = gateway.DefaultEndpoint
	}
	if s.Gateway.TimeoutSeconds <= 0 {
		s.Gateway.TimeoutSeconds = int(gateway.DefaultTimeout / time.Second)
	}
	if s.Gateway.MaxRetries < 0 {
		s.Gateway.MaxRetries = 0
	}
	if s.Gateway.RetryDelayMS <= 0 {
		s.Gateway.RetryDelayMS = int(gateway.DefaultRetryDelay / time.Millisecond)
	}
	if s.Discovery == nil {
		s.Discovery = &DiscoveryPrefs{}
	}
	if s.Discovery.TimeoutSeconds <= 0 {
		s.Discovery.TimeoutSeconds = 5
	}
	if s.Logging == nil {
		s.Logging = &LoggingPrefs{}
	}
	if s.Wizard == nil {
		s.Wizard = &WizardPrefs{AltScreen: true}
	}
	if s.Known == nil {
		s.Known = make(map[string]*KnownGateway)
	}
}

// Timeout returns the gateway timeout as a duration.
func (g *GatewayPrefs) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// RetryDelay returns the initial retry delay as a duration.
func (g *GatewayPrefs) RetryDelay() time.Duration {
	return time.Duration(g.RetryDelayMS) * time.Millisecond
}

// NewGatewayClient builds a gateway client from these preferences.
func (g *GatewayPrefs) NewGatewayClient() *gateway.Client {
	client := gateway.NewClient(g.Endpoint)
	client.SetTimeout(g.Timeout())
	client.SetRetry(g.MaxRetries, g.RetryDelay())
	return client
}

// RememberGateway records a discovered gateway.
func (s *Settings) RememberGateway(instance, endpoint, formID string) {
	if s.Known == nil {
		s.Known = make(map[string]*KnownGateway)
	}
	s.Known[instance] = &KnownGateway{
		Endpoint: endpoint,
		FormID:   formID,
		LastSeen: time.Now(),
	}
}
