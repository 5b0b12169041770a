package devgateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/formwiz/internal/discovery"
	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests
const shutdownTimeout = 5 * time.Second

// Config holds the server configuration
type Config struct {
	Host      string
	Port      int
	FormID    string // Form to serve; empty selects the first by id
	Advertise bool   // Register a _formwiz._tcp mDNS service
	Instance  string // mDNS instance name; defaults to "formwiz-<hostname>"
	Dir       string // Form directory, reloaded when Watch is set
	Watch     bool
}

// Server is a local stand-in for the form gateway
type Server struct {
	config *Config

	mu    sync.Mutex
	form  *schema.Form
	users map[string]string // roll number -> name

	httpServer *http.Server
	mdns       *zeroconf.Server
}

// New creates a server that hands out the selected form from catalog
func New(config *Config, catalog *Catalog) (*Server, error) {
	form, err := catalog.Select(config.FormID)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: config,
		form:   form,
		users:  make(map[string]string),
	}
	s.httpServer = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Form returns the form being served
func (s *Server) Form() *schema.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// setForm swaps the served form. Registered users are kept.
func (s *Server) setForm(f *schema.Form) {
	s.mu.Lock()
	s.form = f
	s.mu.Unlock()
}

// Start listens and serves until ctx is done or SIGINT/SIGTERM arrives.
// With Watch set, the form directory is reloaded on change.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	form := s.Form()
	logging.Info("Starting development gateway",
		zap.String("addr", listener.Addr().String()),
		zap.String("form_id", form.ID),
		zap.String("form_title", form.Title),
	)

	if s.config.Advertise {
		if err := s.advertise(port); err != nil {
			_ = listener.Close()
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.httpServer.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	})
	if s.config.Watch && s.config.Dir != "" {
		g.Go(func() error {
			return s.watch(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown stops advertising and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopAdvertising()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logging.Info("Server stopped")
	return nil
}

func (s *Server) advertise(port int) error {
	instance := s.config.Instance
	if instance == "" {
		host, _ := os.Hostname()
		instance = "formwiz-" + host
	}

	txt := []string{"path=/"}
	if id := s.Form().ID; id != "" {
		txt = append(txt, "form="+id)
	}

	srv, err := zeroconf.Register(instance, discovery.ServiceType, discovery.ServiceDomain, port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	s.mdns = srv

	logging.Info("Advertising gateway over mDNS",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
	)
	return nil
}

func (s *Server) stopAdvertising() {
	if s.mdns != nil {
		s.mdns.Shutdown()
		s.mdns = nil
	}
}
