package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind categorizes failures surfaced to the user
type Kind string

const (
	// KindUnauthenticated means there is no usable session: missing, expired or
	// malformed token. Detected before any network call.
	KindUnauthenticated Kind = "unauthenticated"

	// KindNetworkFailure means the request could not complete.
	KindNetworkFailure Kind = "network_failure"

	// KindServerRejected means the server answered with a non-2xx status.
	KindServerRejected Kind = "server_rejected"

	// KindValidationFailure means required input was missing or malformed.
	KindValidationFailure Kind = "validation_failure"

	KindUnknown Kind = "unknown"
)

// Error is a structured, user-facing error
type Error struct {
	Kind       Kind
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil && e.Kind == KindNetworkFailure {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds a helpful suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *Error) HasSuggestion() bool {
	return e.Suggestion != ""
}

// New creates a new error of the given kind
func New(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Unauthenticated creates an error asking the user to log in
func Unauthenticated(message string) *Error {
	if message == "" {
		message = "You need to log in to do that"
	}
	err := New(KindUnauthenticated, message, nil)
	err.Suggestion = "Run 'reelhouse-cli auth login' to start a session."
	return err
}

// NetworkFailure wraps a transport-level failure
func NetworkFailure(cause error) *Error {
	message := "Could not reach the server"
	if isTimeout(cause) {
		message = "Request timed out"
	}
	err := New(KindNetworkFailure, message, cause)
	err.Suggestion = "Check your connection and try again."
	return err
}

// ServerRejected creates an error for a non-2xx response
func ServerRejected(statusCode int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("Server rejected the request (%d)", statusCode)
	}
	err := New(KindServerRejected, message, nil)
	err.StatusCode = statusCode
	switch {
	case statusCode == 401:
		err.Suggestion = "Your session may have expired. Run 'reelhouse-cli auth login'."
	case statusCode == 429:
		err.Suggestion = "Too many requests. Wait a moment before trying again."
	case statusCode >= 500:
		err.Suggestion = "The server encountered an error. Try again in a few moments."
	}
	return err
}

// Validation creates a validation error for a field
func Validation(field, reason string) *Error {
	return New(KindValidationFailure, fmt.Sprintf("%s %s", field, reason), nil)
}

// KindOf returns the kind of err, or KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsUnauthenticated reports whether err is an Unauthenticated error
func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }

// IsNetworkFailure reports whether err is a NetworkFailure error
func IsNetworkFailure(err error) bool { return KindOf(err) == KindNetworkFailure }

// IsServerRejected reports whether err is a ServerRejected error
func IsServerRejected(err error) bool { return KindOf(err) == KindServerRejected }

// IsValidation reports whether err is a ValidationFailure error
func IsValidation(err error) bool { return KindOf(err) == KindValidationFailure }

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

// Categorize converts an arbitrary error into an *Error
func Categorize(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return NetworkFailure(err)
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "no such host"),
		strings.Contains(errMsg, "timeout"):
		return NetworkFailure(err)
	default:
		return New(KindUnknown, errMsg, err)
	}
}

// Format returns a user-friendly error message
func Format(err error) string {
	if err == nil {
		return ""
	}

	e := Categorize(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if e.Kind != KindUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(e.Kind))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if e.HasSuggestion() {
		sb.WriteString("Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
