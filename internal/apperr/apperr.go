package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without string matching.
type Kind string

const (
	// TransportUnavailable - no response was received at all (network, DNS, timeout).
	TransportUnavailable Kind = "transport_unavailable"
	// RemoteServiceError - the service answered with a SOAP fault or a non-success status.
	RemoteServiceError Kind = "remote_service_error"
	// InvalidResponseFormat - the response body is not well-formed XML.
	InvalidResponseFormat Kind = "invalid_response_format"
	// MalformedResponse - well-formed XML that is missing an expected container element.
	MalformedResponse Kind = "malformed_response"
	// ValidationError - locally detected bad input, nothing was sent.
	ValidationError Kind = "validation_error"
	// Unknown - anything that does not fit the taxonomy.
	Unknown Kind = "unknown"
)

// Error is the single failure type surfaced by the flights client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps the cause in the chain.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or Unknown for errors outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the human-readable message of err. Errors outside the
// taxonomy fall back to their Error() text.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
