// Package completion talks to an OpenAI-compatible chat completion API.
package completion

import (
	"context"
	"errors"
	"fmt"
)

// Request is one single-turn completion call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer defines the contract for completion backends.
type Completer interface {
	Name() string
	Complete(ctx context.Context, apiKey string, req Request) (string, error)
}

// ErrMalformedResponse means the upstream answered 2xx but the body was not
// JSON or had no string at choices.0.message.content.
var ErrMalformedResponse = errors.New("completion: malformed upstream response")

// StatusError is a non-2xx upstream reply. Body is kept for logs only.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion: upstream request failed with status %d", e.StatusCode)
}

// TransportError wraps network-level failures: dial, reset, timeout,
// context cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "completion: transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Failure kinds reported by Kind.
const (
	KindStatus    = "status"
	KindMalformed = "malformed"
	KindTransport = "transport"
	KindOther     = "other"
)

// Kind classifies err into one of the Kind* constants.
func Kind(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError
	switch {
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindOther
	}
}
