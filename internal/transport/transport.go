// Package transport holds the thin HTTP shims that carry a prompt payload
// to a model provider and return its raw text output. Transports are
// stateless: one request in, one response out, no retries.
package transport

import (
	"context"
	"fmt"
)

// Request is the transport-agnostic prompt payload. Its structure is fixed;
// nothing in it is provider-specific.
type Request struct {
	Model  string
	System string
	User   string
}

// Client sends one completion request. Implementations must not retry and
// must respect context cancellation.
type Client interface {
	Complete(ctx context.Context, apiKey string, req Request) (string, error)
}

// StatusError reports a non-2xx HTTP response from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: provider returned HTTP %d: %s", e.Code, e.Body)
}

// AuthClass reports whether the status indicates a credential problem
// (unauthorized, forbidden, or rate-limited) rather than a provider fault.
func (e *StatusError) AuthClass() bool {
	return e.Code == 401 || e.Code == 403 || e.Code == 429
}
