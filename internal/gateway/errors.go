package gateway

import (
	"errors"
	"fmt"
)

// TransportError means no usable response was received: connection refused,
// DNS failure, timeout. The request may or may not have reached the server.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend not reachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the server answered, but not with what we needed:
// a non-2xx status or a payload missing required fields.
type ProtocolError struct {
	Status int
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

// AuthError means the bearer credential was rejected (HTTP 401). Unlike the
// other two it is never recovered locally: by the time a caller sees it, the
// stored credential has already been invalidated via the client's
// OnAuthInvalidated callback.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication rejected: " + e.Reason
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is (or wraps) a ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
