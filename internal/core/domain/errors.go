package domain

import (
	"errors"
	"fmt"
)

// DomainError is a business error carrying a stable code.
//
// Codes use the format AT-<AREA>-<NNNN>. The first digits of the numeric part
// follow HTTP semantics (400x bad input, 401x unauthenticated, 403x forbidden,
// 429x throttled, 5xxx server side), which the HTTP layer relies on.
type DomainError struct {
	Code    string // Error code (e.g., "AT-ARG-4003")
	Message string // Human-readable message, safe to return to callers
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// AsDomainError returns the DomainError in err's chain, or nil.
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// Configuration errors (CONF).
var (
	// ErrCredentialsNotConfigured means app id or app certificate is empty.
	ErrCredentialsNotConfigured = NewDomainError("AT-CONF-5001",
		"Agora App ID and App Certificate must be configured")

	// ErrSigningFailed wraps a failure reported by the signing library.
	ErrSigningFailed = NewDomainError("AT-CONF-5002", "token signing failed")
)

// Argument errors (ARG). Messages are returned verbatim to API callers.
var (
	ErrInvalidRole = NewDomainError("AT-ARG-4001",
		`Role must be either "publisher" or "subscriber"`)

	ErrInvalidUID = NewDomainError("AT-ARG-4002",
		"UID must be a valid number or 0 for dynamic assignment")

	ErrChannelNameRequired = NewDomainError("AT-ARG-4003", "Channel name is required")

	ErrRTMUIDRequired = NewDomainError("AT-ARG-4004", "UID is required for RTM token")

	ErrInvalidExpireTime = NewDomainError("AT-ARG-4005",
		"Expire time must be a positive number of seconds")

	ErrInvalidConfigValue = NewDomainError("AT-ARG-4006", "invalid configuration value")

	ErrPasswordRequired = NewDomainError("AT-ARG-4007", "Password required")
)

// Authorization errors (AUTH).
var (
	// ErrAdminSecretMissing indicates no admin secret was presented.
	ErrAdminSecretMissing = NewDomainError("AT-AUTH-4010", "Admin password required")

	// ErrAdminSecretInvalid indicates the presented admin secret did not match.
	ErrAdminSecretInvalid = NewDomainError("AT-AUTH-4030", "Invalid admin password")

	// ErrPasswordInvalid is the login (verify) flavour of ErrAdminSecretInvalid.
	ErrPasswordInvalid = NewDomainError("AT-AUTH-4031", "Invalid password")
)

// System errors (SYS).
var (
	ErrInternalServer = NewDomainError("AT-SYS-5000", "internal server error")

	// ErrPersistence indicates a config or stats file could not be written.
	// In-memory state is kept when this is returned.
	ErrPersistence = NewDomainError("AT-SYS-5001", "failed to persist record")

	ErrBadRequest = NewDomainError("AT-SYS-4000", "Invalid request body")

	ErrNotFound = NewDomainError("AT-SYS-4040", "Not Found")

	ErrRateLimited = NewDomainError("AT-SYS-4290",
		"Too many requests from this IP, please try again later.")
)
