package client

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-geoidentify/pkg/contract"
)

// DefaultBaseURL is the address of a locally running prediction backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

// RequestIDHeader carries the correlation id attached to every request.
const RequestIDHeader = "X-Request-ID"

// Option configures the HTTP client.
type Option func(*HTTPClient)

// WithBaseURL points the client at a different backend.
func WithBaseURL(base string) Option {
	return func(c *HTTPClient) {
		trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient swaps the transport used for backend calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger routes request logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDFunc overrides how correlation ids are generated.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *HTTPClient) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// WithContract validates success payloads against a custom contract. Passing
// nil disables schema validation; shape checks in the decoders still apply.
func WithContract(ct *contract.Contract) Option {
	return func(c *HTTPClient) {
		c.contract = ct
		c.contractSet = true
	}
}

// WithSanitizer overrides the filter applied to backend-provided text. The
// default only drops control characters; pass sanitize.Text to strip markup.
func WithSanitizer(fn func(string) string) Option {
	return func(c *HTTPClient) {
		if fn != nil {
			c.sanitize = fn
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newRequestID() string {
	return uuid.NewString()
}
