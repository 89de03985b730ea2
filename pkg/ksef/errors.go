package ksef

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an engine failure.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindAuth
	KindValidation
	KindRemoteRejection
	KindRateLimited
	KindTimeout
	KindAlreadyInProgress
	KindAlreadyAccepted
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "TransportError"
	case KindAuth:
		return "AuthError"
	case KindValidation:
		return "ValidationError"
	case KindRemoteRejection:
		return "RemoteRejection"
	case KindRateLimited:
		return "RateLimited"
	case KindTimeout:
		return "Timeout"
	case KindAlreadyInProgress:
		return "AlreadyInProgress"
	case KindAlreadyAccepted:
		return "AlreadyAccepted"
	default:
		return "UnknownError"
	}
}

// MarshalText renders the kind by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is the structured failure shared by the API client, the auth provider
// and the engines. Code carries the KSeF exception code when the remote
// supplied one.
type Error struct {
	Kind       Kind          `json:"kind"`
	Code       string        `json:"code,omitempty"`
	Message    string        `json:"message"`
	Details    string        `json:"details,omitempty"`
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RetryAfterSeconds rounds the retry-after hint up to whole seconds.
func (e *Error) RetryAfterSeconds() int {
	return ceilSeconds(e.RetryAfter)
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// AsError extracts a *Error from err. Errors outside the taxonomy are
// reported as transport failures since they originate below the protocol.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr
	}
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var kerr *Error
	return errors.As(err, &kerr) && kerr.Kind == kind
}

// ceilSeconds converts d to whole seconds, rounding up.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	s := int(d / time.Second)
	if d%time.Second != 0 {
		s++
	}
	return s
}

// RetryAfterSeconds returns the whole seconds remaining until expiry.
func RetryAfterSeconds(now, expiry time.Time) int {
	return ceilSeconds(expiry.Sub(now))
}
