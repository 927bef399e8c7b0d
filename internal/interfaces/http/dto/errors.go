package dto

import (
	"net/http"

	"github.com/erp/erpcore/internal/domain/shared"
)

// Transport-level error codes. Business failures reuse the domain error codes.
const (
	// ErrCodeInternal hides system failures from clients
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeRouteNotFound is used for unknown routes
	ErrCodeRouteNotFound = "ERR_ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,

	shared.CodeValidation:        http.StatusBadRequest,
	shared.CodeUnknownTargetType: http.StatusBadRequest,

	shared.CodeUnauthenticated:     http.StatusUnauthorized,
	shared.CodeTenantInactive:      http.StatusForbidden,
	shared.CodeNamespaceResolution: http.StatusForbidden,

	shared.CodeNotFound:         http.StatusNotFound,
	shared.CodeAlreadyExists:    http.StatusConflict,
	shared.CodeDuplicateRequest: http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition: http.StatusUnprocessableEntity,

	shared.CodeConsistencyViolation: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode returns code when it is a known code and ErrCodeInternal otherwise,
// so that unexpected codes never leak to clients.
func NormalizeErrorCode(code string) string {
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeInternal
}

// IsServerError reports whether code is reported with a 5xx status
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
