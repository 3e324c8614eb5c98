package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPStatusError reports a non-2xx response from a provider endpoint.
type HTTPStatusError struct {
	Provider   string
	URL        string
	StatusCode int
	Latency    time.Duration
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	name := strings.TrimSpace(e.Provider)
	if name == "" {
		name = "provider"
	}
	return fmt.Sprintf("%s returned %d (latency=%v)", name, e.StatusCode, e.Latency)
}

// NotFound reports whether the status means the record does not exist.
func (e *HTTPStatusError) NotFound() bool {
	return e != nil && (e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone)
}

// Transient reports whether retrying the request later could succeed.
func (e *HTTPStatusError) Transient() bool {
	if e == nil {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsNotFound reports whether err wraps a not-found HTTP status.
func IsNotFound(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.NotFound()
}

// IsTransient reports whether err wraps a retryable HTTP status.
func IsTransient(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.Transient()
}
