package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/openai/openai-go/v2"
	"github.com/rotisserie/eris"
)

// Kind names a probe failure class. Values double as history outcome labels.
type Kind string

const (
	KindConnection Kind = "connection_error"
	KindServer     Kind = "server_error"
	KindClient     Kind = "client_error"
)

// Sentinels for matching a *ProbeError with eris.Is or errors.Is.
var (
	ErrConnection = eris.New("connection error")
	ErrServer     = eris.New("server error")
	ErrClient     = eris.New("client error")
)

// ProbeError is a classified chat-completion failure.
type ProbeError struct {
	Kind Kind
	// StatusCode is the HTTP status returned by the server, zero when none was received.
	StatusCode int
	Err        error
}

func (e *ProbeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *ProbeError) Is(target error) bool {
	switch e.Kind {
	case KindConnection:
		return target == ErrConnection
	case KindServer:
		return target == ErrServer
	case KindClient:
		return target == ErrClient
	}
	return false
}

// KindOf returns the failure class of err, or an empty Kind when err is not classified.
func KindOf(err error) Kind {
	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return probeErr.Kind
	}
	return ""
}

// StatusCodeOf returns the HTTP status carried by err, or zero.
func StatusCodeOf(err error) int {
	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return probeErr.StatusCode
	}
	return 0
}

// classify maps an SDK or transport error onto the probe taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProbeError{Kind: KindServer, StatusCode: apiErr.StatusCode, Err: err}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ProbeError{Kind: KindConnection, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ProbeError{Kind: KindConnection, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &ProbeError{Kind: KindConnection, Err: err}
	}

	// Anything else got past the transport but could not be decoded.
	return &ProbeError{Kind: KindServer, Err: err}
}

func clientError(message string) error {
	return &ProbeError{Kind: KindClient, Err: eris.New(message)}
}

func clientErrorf(format string, args ...any) error {
	return &ProbeError{Kind: KindClient, Err: eris.Errorf(format, args...)}
}

func serverError(message string) error {
	return &ProbeError{Kind: KindServer, Err: eris.New(message)}
}
