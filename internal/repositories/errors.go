package repositories

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when the remote service reports 404 for a member.
	ErrNotFound = errors.New("requested member not found")

	// ErrUnavailable is returned when a request never completed: connection
	// refused, DNS failure, or any other transport-level error.
	ErrUnavailable = errors.New("member service unreachable")

	// ErrUpstream is returned when the remote service completed the request but
	// answered with a non-success status.
	ErrUpstream = errors.New("member service returned an error status")
)

// HTTPDoer is an interface satisfied by *http.Client.
// Repository methods issue requests through it so tests can substitute a client
// pointed at a fake server.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
