package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("AT-TEST-1000", "test message"),
			expected: "[AT-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("AT-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[AT-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("AT-TEST-1000", "message 1")
	err2 := NewDomainError("AT-TEST-1000", "message 2")
	err3 := NewDomainError("AT-TEST-1001", "message 1")

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_WithCause(t *testing.T) {
	original := NewDomainError("AT-TEST-1000", "original message")
	cause := fmt.Errorf("root cause")
	withCause := original.WithCause(cause)

	if original.Cause != nil {
		t.Error("WithCause should not modify original error")
	}
	if errors.Unwrap(withCause) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(withCause), cause)
	}
	if withCause.Code != original.Code {
		t.Errorf("Code = %q, want %q", withCause.Code, original.Code)
	}
}

func TestIsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("issue: %w", ErrChannelNameRequired)

	if !IsDomainError(wrapped, "AT-ARG-4003") {
		t.Error("IsDomainError should work with wrapped errors")
	}
	if IsDomainError(wrapped, "AT-ARG-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}
	if !IsDomainError(ErrPersistence, "") {
		t.Error("empty code should match any DomainError")
	}
	if IsDomainError(fmt.Errorf("regular error"), "") {
		t.Error("IsDomainError should return false for non-DomainError")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(fmt.Errorf("w: %w", ErrAdminSecretInvalid)); got != "AT-AUTH-4030" {
		t.Errorf("GetErrorCode() = %q, want AT-AUTH-4030", got)
	}
	if got := GetErrorCode(nil); got != "" {
		t.Errorf("GetErrorCode(nil) = %q, want empty", got)
	}
	if AsDomainError(errors.New("plain")) != nil {
		t.Error("AsDomainError should return nil for plain errors")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrCredentialsNotConfigured, "AT-CONF-5001"},
		{ErrSigningFailed, "AT-CONF-5002"},
		{ErrInvalidRole, "AT-ARG-4001"},
		{ErrInvalidUID, "AT-ARG-4002"},
		{ErrChannelNameRequired, "AT-ARG-4003"},
		{ErrRTMUIDRequired, "AT-ARG-4004"},
		{ErrInvalidExpireTime, "AT-ARG-4005"},
		{ErrInvalidConfigValue, "AT-ARG-4006"},
		{ErrPasswordRequired, "AT-ARG-4007"},
		{ErrAdminSecretMissing, "AT-AUTH-4010"},
		{ErrAdminSecretInvalid, "AT-AUTH-4030"},
		{ErrPasswordInvalid, "AT-AUTH-4031"},
		{ErrInternalServer, "AT-SYS-5000"},
		{ErrPersistence, "AT-SYS-5001"},
		{ErrBadRequest, "AT-SYS-4000"},
		{ErrNotFound, "AT-SYS-4040"},
		{ErrRateLimited, "AT-SYS-4290"},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
			if !strings.HasPrefix(tt.err.Code, "AT-") {
				t.Errorf("code %q should carry the AT- prefix", tt.err.Code)
			}
		})
		if seen[tt.code] {
			t.Errorf("duplicate code %s", tt.code)
		}
		seen[tt.code] = true
	}
}
