package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidAccount   = NewDomainError("INVALID_ACCOUNT", "Customer has no account credentials")
	ErrEmailExists      = NewDomainError("EMAIL_EXISTS", "A customer with this email already exists")
	ErrInvalidVersion   = NewDomainError("INVALID_VERSION", "Version token is malformed or stale")
	ErrTimeout          = NewDomainError("TIMEOUT", "Operation exceeded its time budget")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrUnknownCriterion = NewDomainError("UNKNOWN_CRITERION", "Unrecognized search parameter")
	ErrUsernameExists   = NewDomainError("USERNAME_EXISTS", "An account with this username already exists")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
)
