package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrRequest matches transport failures: DNS, connection, TLS, timeout.
	ErrRequest = errors.New("client: request failed")
	// ErrStatus matches responses outside the 2xx range.
	ErrStatus = errors.New("client: unexpected status")
	// ErrDecode matches bodies that are not valid JSON.
	ErrDecode = errors.New("client: invalid response body")
	// ErrInvalidBaseURL is returned by New for unusable base URLs.
	ErrInvalidBaseURL = errors.New("client: invalid base url")
)

// RequestError wraps a transport failure. Its message is the cause's description.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequest }

// Timeout reports whether the request was abandoned because a deadline passed.
func (e *RequestError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP %d", e.Code) }

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// DecodeError wraps a JSON parse failure. Its message is the parser's description.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
