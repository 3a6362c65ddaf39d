package client

import (
	"fmt"
	"net/http"
)

// APIError reports a non-2xx answer from the backend. Detail carries the
// human-readable `detail` field when the body provided one.
type APIError struct {
	Operation string
	Status    int
	Detail    string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("client: %s: unexpected status %d %s", e.Operation, e.Status, http.StatusText(e.Status))
}

// StatusCode exposes the HTTP status carried by the error.
func (e *APIError) StatusCode() int {
	return e.Status
}

// DetailMessage returns the backend-provided detail, empty when absent.
func (e *APIError) DetailMessage() string {
	return e.Detail
}
