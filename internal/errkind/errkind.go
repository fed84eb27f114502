// Package errkind defines the typed failures returned by the deployer and the
// reporter. Components classify errors; only the HTTP layer maps a Kind to a
// status code.
package errkind

import (
	"errors"
	"net/http"
)

// Kind identifies the class of a failure.
type Kind string

const (
	// InvalidArgument means the input was rejected before any cluster call.
	InvalidArgument Kind = "invalid_argument"
	// ClusterRejected means the API server refused the object.
	ClusterRejected Kind = "cluster_rejected"
	// ClusterUnreachable covers transport failures and timeouts talking to the API server.
	ClusterUnreachable Kind = "cluster_unreachable"
	// MetricsStoreUnreachable covers transport failures and non-2xx answers from Prometheus.
	MetricsStoreUnreachable Kind = "metrics_store_unreachable"
)

// Error is a classified failure. Code is only meaningful for ClusterRejected,
// where it carries the HTTP code reported by the API server.
type Error struct {
	Kind    Kind
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err, using its text as the message.
func Wrap(kind Kind, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// Rejected builds a ClusterRejected error. A code outside the 4xx range is
// replaced with 400.
func Rejected(message string, code int, err error) *Error {
	if code < http.StatusBadRequest || code >= http.StatusInternalServerError {
		code = http.StatusBadRequest
	}
	return &Error{Kind: ClusterRejected, Message: message, Code: code, Err: err}
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Of returns the Kind of err, or "" when err is not classified.
func Of(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
