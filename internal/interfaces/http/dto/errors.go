package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeTimeout is used when a backend call exceeded its budget
	ErrCodeTimeout = "ERR_TIMEOUT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeEmailExists is used when the email is already taken
	ErrCodeEmailExists = "ERR_EMAIL_EXISTS"
	// ErrCodeUsernameExists is used when the username is already taken
	ErrCodeUsernameExists = "ERR_USERNAME_EXISTS"
	// ErrCodeInvalidVersion is used when the supplied version token is malformed or stale
	ErrCodeInvalidVersion = "ERR_INVALID_VERSION"
	// ErrCodeVersionRequired is used when a write arrives without a version token
	ErrCodeVersionRequired = "ERR_VERSION_REQUIRED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidAccount is used when a customer is created without credentials
	ErrCodeInvalidAccount = "ERR_INVALID_ACCOUNT"
	// ErrCodeUnknownCriterion is used when a search parameter is not recognized
	ErrCodeUnknownCriterion = "ERR_UNKNOWN_CRITERION"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeTimeout:  http.StatusGatewayTimeout,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeEmailExists:     http.StatusUnprocessableEntity,
	ErrCodeUsernameExists:  http.StatusUnprocessableEntity,
	ErrCodeInvalidVersion:  http.StatusPreconditionFailed,
	ErrCodeVersionRequired: http.StatusPreconditionRequired,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidAccount:   http.StatusBadRequest,
	ErrCodeUnknownCriterion: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unmapped
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps domain error codes to API error codes
var domainErrorCodes = map[string]string{
	"INVALID_ACCOUNT":   ErrCodeInvalidAccount,
	"EMAIL_EXISTS":      ErrCodeEmailExists,
	"USERNAME_EXISTS":   ErrCodeUsernameExists,
	"INVALID_VERSION":   ErrCodeInvalidVersion,
	"TIMEOUT":           ErrCodeTimeout,
	"UNAUTHORIZED":      ErrCodeForbidden,
	"UNKNOWN_CRITERION": ErrCodeUnknownCriterion,
	"INVALID_INPUT":     ErrCodeInvalidInput,
	"INVALID_NAME":      ErrCodeInvalidInput,
	"INVALID_EMAIL":     ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to its API error code
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainErrorCodes[code]; ok {
		return normalized
	}
	return ErrCodeUnknown
}
