// Package session gates access to the form behind a login. A Shell
// registers the user with the gateway, fetches their form and remembers
// who is logged in.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/gateway"
	"github.com/muurk/formwiz/internal/logging"
	"github.com/muurk/formwiz/internal/schema"
)

const (
	MsgRollNumberRequired = "Roll number is required"
	MsgNameRequired       = "Name is required"
)

// Keys of the map returned by ValidateIdentity.
const (
	FieldRollNumber = "rollNumber"
	FieldName       = "name"
)

var (
	// ErrLoginInFlight is returned when Login is called while another
	// login is still running.
	ErrLoginInFlight = errors.New("login already in progress")

	// ErrSchemaMissing is returned when the gateway accepted the user but
	// had no form for them.
	ErrSchemaMissing = errors.New("no form available for this user")

	// ErrInvalidIdentity is returned by Login when ValidateIdentity fails.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Identity is the pair a user logs in with.
type Identity = gateway.Identity

// Gateway is the part of the gateway client the shell needs.
type Gateway interface {
	RegisterUser(ctx context.Context, id gateway.Identity) (*gateway.Ack, error)
	FetchSchema(ctx context.Context, rollNumber string) (*schema.Form, error)
}

// State is where the shell is in the login flow.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateSchemaMissing
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateSchemaMissing:
		return "schema-missing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Shell holds the login state. Login runs off the UI goroutine, so all
// fields are guarded by mu.
type Shell struct {
	gw Gateway

	mu       sync.Mutex
	state    State
	inFlight bool
	identity Identity
	form     *schema.Form
}

// New creates a shell in StateUnauthenticated.
func New(gw Gateway) *Shell {
	return &Shell{gw: gw}
}

// ValidateIdentity checks that both parts are present after trimming.
// The result maps FieldRollNumber / FieldName to a message and is empty
// when the identity is usable.
func ValidateIdentity(id Identity) map[string]string {
	id = id.Normalize()
	errs := make(map[string]string)
	if id.ID == "" {
		errs[FieldRollNumber] = MsgRollNumberRequired
	}
	if id.Name == "" {
		errs[FieldName] = MsgNameRequired
	}
	return errs
}

// Login registers the user and fetches their form. On failure the shell
// stays unauthenticated and the gateway error is returned as is. A
// successful fetch without a form moves the shell to StateSchemaMissing
// and returns ErrSchemaMissing.
func (s *Shell) Login(ctx context.Context, id Identity) (*schema.Form, error) {
	id = id.Normalize()
	if errs := ValidateIdentity(id); len(errs) > 0 {
		return nil, ErrInvalidIdentity
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrLoginInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	logging.Info("Logging in", zap.String("roll_number", id.ID))

	if _, err := s.gw.RegisterUser(ctx, id); err != nil {
		logging.Warn("Registration failed", zap.Error(err))
		s.setState(StateUnauthenticated, Identity{}, nil)
		return nil, err
	}

	form, err := s.gw.FetchSchema(ctx, id.ID)
	if err != nil {
		logging.Warn("Fetching form failed", zap.Error(err))
		s.setState(StateUnauthenticated, Identity{}, nil)
		return nil, err
	}

	if form == nil {
		logging.Warn("Gateway returned no form", zap.String("roll_number", id.ID))
		s.setState(StateSchemaMissing, id, nil)
		return nil, ErrSchemaMissing
	}

	logging.Info("Form loaded",
		zap.String("form_id", form.ID),
		zap.Int("sections", len(form.Sections)),
	)
	s.setState(StateAuthenticated, id, form)
	return form, nil
}

// Reset logs out: back to StateUnauthenticated with no identity or form.
func (s *Shell) Reset() {
	s.setState(StateUnauthenticated, Identity{}, nil)
}

// State returns the current state.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InFlight reports whether a Login is running.
func (s *Shell) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Identity returns the logged-in identity, zero when logged out.
func (s *Shell) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Form returns the loaded form, nil unless authenticated.
func (s *Shell) Form() *schema.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// WelcomeMessage is the notice shown after a successful login.
func (s *Shell) WelcomeMessage() string {
	return fmt.Sprintf("Welcome, %s! Your dynamic form has been loaded.", s.Identity().Name)
}

func (s *Shell) setState(state State, id Identity, form *schema.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.identity = id
	s.form = form
}
