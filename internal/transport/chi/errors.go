package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/apicat/internal/domain"
	logpkg "github.com/kailas-cloud/apicat/internal/logger"
	"github.com/kailas-cloud/apicat/internal/openapi"
)

// ErrorCode is a machine-readable error kind.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeNotFound          ErrorCode = "not_found"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeForbidden         ErrorCode = "forbidden"
	CodeNotAuthenticated  ErrorCode = "not_authenticated"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeUnsupportedFormat ErrorCode = "unsupported_format"
	CodeUpstreamError     ErrorCode = "upstream_error"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrInvalidDefinitionID, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrNotAuthenticated, http.StatusUnauthorized, CodeNotAuthenticated),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrUnauthorized, http.StatusBadGateway, CodeUnauthorized),
	sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(openapi.ErrUnsupportedFormat, http.StatusUnprocessableEntity, CodeUnsupportedFormat),
	sentinelHandler(domain.ErrEmptySpecificationLink, http.StatusBadGateway, CodeUpstreamError),
	sentinelHandler(domain.ErrTransport, http.StatusBadGateway, CodeUpstreamError),
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidDefinitionID,
		domain.ErrNotAuthenticated,
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrRateLimited,
		openapi.ErrUnsupportedFormat,
		domain.ErrEmptySpecificationLink,
		domain.ErrTransport,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context(), nil)
	logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
