package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a stable machine-readable
// code. The service layer returns these; only the handler layer translates them
// into HTTP semantics.
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches by code, so WrapError(ErrInternal, err) still satisfies
// errors.Is(err, ErrInternal).
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors.
//
// ErrInvalidCredentials covers both unknown email and wrong password so the
// two are indistinguishable to the caller. ErrInvalidRefreshToken likewise
// covers unknown, expired and already-rotated tokens with one payload.
var (
	// Input errors
	ErrBadInput = NewDomainError("BAD_REQUEST", "invalid request")

	// Credential errors
	ErrInvalidCredentials   = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrIncorrectOldPassword = NewDomainError("INCORRECT_OLD_PASSWORD", "old password is incorrect")

	// Registration errors
	ErrDuplicateEmail = NewDomainError("EMAIL_EXISTS", "email already registered")

	// Token errors
	ErrTokenExpired        = NewDomainError("TOKEN_EXPIRED", "token has expired")
	ErrTokenInvalid        = NewDomainError("TOKEN_INVALID", "token is invalid")
	ErrTokenMalformed      = NewDomainError("TOKEN_MALFORMED", "token is malformed")
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")

	// Identity errors
	ErrMissingIdentity = NewDomainError("MISSING_IDENTITY", "authentication failed: identity missing")
	ErrUserNotFound    = NewDomainError("USER_NOT_FOUND", "user not found")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "BAD_REQUEST", "INCORRECT_OLD_PASSWORD":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "INVALID_CREDENTIALS", "TOKEN_EXPIRED", "TOKEN_INVALID", "TOKEN_MALFORMED",
		"INVALID_REFRESH_TOKEN", "MISSING_IDENTITY", "USER_NOT_FOUND":
		return http.StatusUnauthorized

	// 409 Conflict
	case "EMAIL_EXISTS":
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCode returns the stable code for an error, INTERNAL_ERROR for
// unknown ones.
func GetErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal.Code
}

// GetErrorMessage safely extracts the user-facing error message. Wrapped
// internal detail is never included; unknown errors collapse to a generic
// message so collaborator failures cannot leak to callers.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
