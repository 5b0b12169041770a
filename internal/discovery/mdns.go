package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/logging"
)

const (
	// ServiceType is the mDNS service type form gateways advertise
	ServiceType = "_formwiz._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for gateway discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry advertises no port
	DefaultPort = 80
)

// ErrNoGateway is returned by FindFirst when nothing answered in time.
var ErrNoGateway = errors.New("no form gateway found on the local network")

// Scanner handles mDNS gateway discovery
type Scanner struct {
	// Timeout is the maximum time to wait for gateways
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for the full timeout and returns every gateway seen,
// de-duplicated by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		gateways []*Gateway
		seen     = make(map[string]bool)
	)

	err := s.browse(ctx, func(g *Gateway) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[g.Instance] {
			seen[g.Instance] = true
			gateways = append(gateways, g)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	logging.Debug("Gateway scan finished", zap.Int("found", len(gateways)))
	return gateways, nil
}

// FindFirst returns the first gateway that answers.
func (s *Scanner) FindFirst(ctx context.Context) (*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Gateway, 1)

	err := s.browse(ctx, func(g *Gateway) bool {
		select {
		case found <- g:
		default:
		}
		cancel()
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case g := <-found:
		logging.Info("Gateway discovered", zap.String("instance", g.Instance), zap.String("url", g.BaseURL()))
		return g, nil
	case <-ctx.Done():
		// cancel() above races with the send, so check once more
		select {
		case g := <-found:
			return g, nil
		default:
		}
		return nil, ErrNoGateway
	}
}

// browse starts a resolver and calls visit for each parsed entry until
// visit returns false or ctx ends.
func (s *Scanner) browse(ctx context.Context, visit func(*Gateway) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		// keep draining after visit says stop; the resolver closes entries
		stopped := false
		for entry := range entries {
			if stopped {
				continue
			}
			if g := parseServiceEntry(entry); g != nil {
				stopped = !visit(g)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Gateway.
// Returns nil for entries without a usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Gateway {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	instance := entry.Instance
	if instance == "" {
		instance = entry.HostName
	}

	return &Gateway{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
