package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrBadInput, http.StatusBadRequest},
		{ErrIncorrectOldPassword, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrMissingIdentity, http.StatusUnauthorized},
		{ErrInvalidRefreshToken, http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{ErrTokenInvalid, http.StatusUnauthorized},
		{ErrTokenMalformed, http.StatusUnauthorized},
		{ErrUserNotFound, http.StatusUnauthorized},
		{ErrDuplicateEmail, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
		{errors.New("some collaborator failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrapError_PreservesIdentity(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapError(ErrInternal, cause)

	if !errors.Is(wrapped, ErrInternal) {
		t.Error("wrapped error should match ErrInternal")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if errors.Is(wrapped, ErrInvalidCredentials) {
		t.Error("wrapped error should not match unrelated domain errors")
	}
}

func TestWrapError_FurtherWrapping(t *testing.T) {
	cause := errors.New("timeout")
	wrapped := fmt.Errorf("store call failed: %w", WrapError(ErrInternal, cause))

	if !errors.Is(wrapped, ErrInternal) {
		t.Error("domain error should survive fmt.Errorf wrapping")
	}
	if GetErrorCode(wrapped) != "INTERNAL_ERROR" {
		t.Errorf("GetErrorCode = %q, want INTERNAL_ERROR", GetErrorCode(wrapped))
	}
}

func TestGetErrorMessage_HidesInternalDetail(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	wrapped := WrapError(ErrInternal, cause)

	msg := GetErrorMessage(wrapped)
	if msg != ErrInternal.Message {
		t.Errorf("GetErrorMessage = %q, want %q", msg, ErrInternal.Message)
	}

	// Unknown errors collapse to the generic message too
	if got := GetErrorMessage(cause); got != ErrInternal.Message {
		t.Errorf("GetErrorMessage(raw) = %q, want %q", got, ErrInternal.Message)
	}
}

func TestDomainError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := WrapError(ErrInternal, cause)

	want := "internal server error: boom"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestGetDomainError(t *testing.T) {
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("plain error should not yield a domain error")
	}

	got := GetDomainError(fmt.Errorf("wrapped: %w", ErrDuplicateEmail))
	if got == nil || got.Code != "EMAIL_EXISTS" {
		t.Errorf("GetDomainError = %+v, want EMAIL_EXISTS", got)
	}
}
