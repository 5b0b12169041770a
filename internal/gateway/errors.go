package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeRegistration indicates the gateway rejected POST /create-user
	ErrTypeRegistration ErrorType = iota
	// ErrTypeFetch indicates the gateway rejected GET /get-form
	ErrTypeFetch
	// ErrTypeNetwork indicates a network-level error not covered below
	ErrTypeNetwork
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the gateway refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeRegistration:
		return "Registration Error"
	case ErrTypeFetch:
		return "Fetch Error"
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Operation names the gateway call an error came from.
type Operation int

const (
	OpRegister Operation = iota
	OpFetch
)

// prefix is the user-facing lead-in for failures of the operation.
func (op Operation) prefix() string {
	if op == OpRegister {
		return "Failed to create user"
	}
	return "Failed to fetch form"
}

// fallback is used when a rejection carries no message.
func (op Operation) fallback() string {
	if op == OpRegister {
		return "Failed to create user"
	}
	return "Failed to fetch form data"
}

// GatewayError represents an error that occurred talking to the gateway
type GatewayError struct {
	Type       ErrorType // Category of error
	Op         Operation // Which call failed
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the error is retryable
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more
// specific error type
func ClassifyNetworkError(op Operation, err error) *GatewayError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &GatewayError{Type: ErrTypeTimeout, Op: op, Message: "Request timed out", Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &GatewayError{
			Type:    ErrTypeDNS,
			Op:      op,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &GatewayError{Type: ErrTypeConnectionRefused, Op: op, Message: "Gateway refused connection", Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(op, urlErr.Err)
	}

	return &GatewayError{Type: ErrTypeNetwork, Op: op, Message: "Network error occurred", Err: err, Retryable: true}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(op Operation, message string, err error) *GatewayError {
	classified := ClassifyNetworkError(op, err)
	if classified == nil {
		return &GatewayError{Type: ErrTypeNetwork, Op: op, Message: message, Retryable: true}
	}
	if classified.Type == ErrTypeNetwork {
		classified.Message = message
	}
	return classified
}

// NewRejectionError creates the error for a non-2xx gateway response.
// An empty message falls back to the operation's default text.
func NewRejectionError(op Operation, statusCode int, message string) *GatewayError {
	if message == "" {
		message = op.fallback()
	}
	et := ErrTypeFetch
	if op == OpRegister {
		et = ErrTypeRegistration
	}
	return &GatewayError{
		Type:       et,
		Op:         op,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(op Operation, message string, err error) *GatewayError {
	return &GatewayError{Type: ErrTypeParse, Op: op, Message: message, Err: err}
}

func asGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}

// IsNetworkError checks if an error is a network error (including timeout,
// connection refused and DNS)
func IsNetworkError(err error) bool {
	if gwErr, ok := asGatewayError(err); ok {
		return gwErr.Type == ErrTypeNetwork ||
			gwErr.Type == ErrTypeTimeout ||
			gwErr.Type == ErrTypeConnectionRefused ||
			gwErr.Type == ErrTypeDNS
	}
	return false
}

// IsRejection checks if the gateway answered with a non-2xx status
func IsRejection(err error) bool {
	if gwErr, ok := asGatewayError(err); ok {
		return gwErr.Type == ErrTypeRegistration || gwErr.Type == ErrTypeFetch
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	if gwErr, ok := asGatewayError(err); ok {
		return gwErr.Type == ErrTypeParse
	}
	return false
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if gwErr, ok := asGatewayError(err); ok {
		return gwErr.Retryable
	}
	return false
}

// UserMessage returns the one-line text shown to the user for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	gwErr, ok := asGatewayError(err)
	if !ok {
		return err.Error()
	}
	return gwErr.Op.prefix() + ": " + shortMessage(gwErr)
}

func shortMessage(e *GatewayError) string {
	switch e.Type {
	case ErrTypeRegistration, ErrTypeFetch:
		return e.Message
	case ErrTypeTimeout:
		return "gateway not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "gateway refused connection"
	case ErrTypeDNS:
		return "cannot resolve gateway host"
	case ErrTypeParse:
		return "unexpected response from gateway"
	default:
		return "network error - check connection"
	}
}
