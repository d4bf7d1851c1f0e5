package apicat

import (
	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/openapi"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrUnauthorized           = domain.ErrUnauthorized
	ErrForbidden              = domain.ErrForbidden
	ErrRateLimited            = domain.ErrRateLimited
	ErrTransport              = domain.ErrTransport
	ErrNotAuthenticated       = domain.ErrNotAuthenticated
	ErrInvalidDefinitionID    = domain.ErrInvalidDefinitionID
	ErrEmptySpecificationLink = domain.ErrEmptySpecificationLink
	ErrUnsupportedFormat      = openapi.ErrUnsupportedFormat
)

// TransportError carries the method, URL and status of a failed data API call.
type TransportError = domain.TransportError
