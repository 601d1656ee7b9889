package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the response envelope. Domain errors carry
// these codes directly; the HTTP layer only has to translate them to
// status codes.

// General error codes
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "INVALID_TOKEN"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
	CodeTokenError         = "TOKEN_ERROR"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeAccountDisabled    = "ACCOUNT_DEACTIVATED"
)

// Resource error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInvalidState       = "INVALID_STATE"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodeCartEmpty          = "CART_EMPTY"
	CodeNoItems            = "NO_ITEMS"
	CodeUnsupportedType    = "UNSUPPORTED_TYPE"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
)

// Rate limiting error codes
const (
	CodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	CodeInternal:   http.StatusInternalServerError,
	CodeBadRequest: http.StatusBadRequest,

	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeTokenInvalid:       http.StatusUnauthorized,
	CodeTokenRevoked:       http.StatusUnauthorized,
	CodeTokenMaxRefresh:    http.StatusUnauthorized,
	CodeTokenError:         http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeAccountLocked:      http.StatusForbidden,
	CodeAccountDisabled:    http.StatusForbidden,

	CodeNotFound:            http.StatusNotFound,
	CodeAlreadyExists:       http.StatusConflict,
	CodeConcurrencyConflict: http.StatusConflict,

	CodeInvalidInput:       http.StatusBadRequest,
	CodeInvalidTransition:  http.StatusUnprocessableEntity,
	CodeInvalidState:       http.StatusUnprocessableEntity,
	CodeInvalidStatus:      http.StatusUnprocessableEntity,
	CodeInsufficientStock:  http.StatusUnprocessableEntity,
	CodeProductUnavailable: http.StatusUnprocessableEntity,
	CodeCartEmpty:          http.StatusUnprocessableEntity,
	CodeNoItems:            http.StatusBadRequest,
	CodeUnsupportedType:    http.StatusBadRequest,
	CodeUserNotFound:       http.StatusNotFound,
	CodeAccountInactive:    http.StatusForbidden,

	CodeRateLimited:     http.StatusTooManyRequests,
	CodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* codes not in the map are field validation failures from the
// domain and answer 400; anything else maps to 500 so an unclassified
// failure never leaks as success.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
