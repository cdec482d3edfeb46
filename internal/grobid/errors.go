// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grobid

import "fmt"

// TransportError reports a network-level failure reaching the structuring
// service: connection refused, DNS failure, or timeout. The service was
// never able to answer.
type TransportError struct {
	// Source is the source document the request was made for.
	Source string

	// Err is the underlying network error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: structuring service unreachable: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError reports that the structuring service was reachable but
// answered with a failure status.
type ServiceError struct {
	// Source is the source document the request was made for.
	Source string

	// StatusCode is the HTTP status the service returned.
	StatusCode int

	// Body is a snippet of the response body, for log context.
	Body string
}

func (e *ServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: structuring service returned HTTP %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: structuring service returned HTTP %d: %s", e.Source, e.StatusCode, e.Body)
}
