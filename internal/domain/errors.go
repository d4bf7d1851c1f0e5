package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound signals a missing catalog entity.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized signals a rejected or missing credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals a credential without access to the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited signals a throttled request.
	ErrRateLimited = errors.New("rate limited")
	// ErrTransport signals any other network or HTTP failure.
	ErrTransport = errors.New("transport error")
	// ErrNotAuthenticated signals a fetch attempted before the session is authenticated.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidDefinitionID signals an identifier with an empty segment.
	ErrInvalidDefinitionID = errors.New("invalid definition id")
	// ErrEmptySpecificationLink signals an export that returned no link.
	ErrEmptySpecificationLink = errors.New("empty specification link")
)

// TransportError is a failed round trip to the catalog backend.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Unwrap maps the status code onto a sentinel so callers can use errors.Is.
func (e *TransportError) Unwrap() []error {
	errs := []error{ErrTransport}
	switch e.StatusCode {
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	case http.StatusUnauthorized:
		errs = append(errs, ErrUnauthorized)
	case http.StatusForbidden:
		errs = append(errs, ErrForbidden)
	case http.StatusTooManyRequests:
		errs = append(errs, ErrRateLimited)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
