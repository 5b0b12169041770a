package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Gateway represents a form gateway found on the local network
type Gateway struct {
	// Instance is the advertised mDNS instance name (e.g., "formwiz-lab")
	Instance string

	// Hostname is the mDNS hostname (e.g., "lab-box.local.")
	Hostname string

	// IP is the address to connect to, IPv4 preferred
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data
	// Common fields: "path=/", "form=form_001", "version=..."
	Metadata map[string]string

	// DiscoveredAt is when the gateway was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the gateway
func (g *Gateway) String() string {
	return fmt.Sprintf("%s (%s) at %s", g.Instance, strings.TrimSuffix(g.Hostname, "."), g.BaseURL())
}

// BaseURL returns the HTTP base URL, including the advertised path
func (g *Gateway) BaseURL() string {
	u := "http://" + net.JoinHostPort(g.IP, strconv.Itoa(g.Port))
	if p := strings.Trim(g.GetMetadata("path"), "/"); p != "" {
		u += "/" + p
	}
	return u
}

// FormID returns the form the gateway advertises, if any
func (g *Gateway) FormID() string {
	return g.GetMetadata("form")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (g *Gateway) GetMetadata(key string) string {
	if g.Metadata == nil {
		return ""
	}
	return g.Metadata[key]
}
