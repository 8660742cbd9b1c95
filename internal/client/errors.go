package client

import "fmt"

// TransportError reports a network-level failure: the request never produced
// an HTTP response (connection refused, DNS failure, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-success HTTP status from the crawl4ai API.
// Message carries the backend's error body when one was provided.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s returned status %d", e.Op, e.StatusCode)
}

// DecodeError reports a malformed or unexpected response body.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
