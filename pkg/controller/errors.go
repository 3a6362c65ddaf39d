package controller

import "errors"

var (
	// ErrEmptySelection is returned by Analyze when no feature is checked.
	ErrEmptySelection = errors.New("controller: empty selection")
	// ErrBusy is returned while another backend call is in flight.
	ErrBusy = errors.New("controller: operation in progress")
	// ErrNoBackend is returned when the controller was built without a Backend.
	ErrNoBackend = errors.New("controller: backend is nil")
)

// DetailError is implemented by backend errors that carry a status code and
// an optional human-readable detail.
type DetailError interface {
	error
	StatusCode() int
	DetailMessage() string
}
