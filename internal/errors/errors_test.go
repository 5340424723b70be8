package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	wrapped := WrapError(ErrDuplicateIdentity, fmt.Errorf("driver detail"))

	if !errors.Is(wrapped, ErrDuplicateIdentity) {
		t.Error("wrapped error does not match its sentinel")
	}
	if errors.Is(wrapped, ErrInvalidCredentials) {
		t.Error("wrapped error matches an unrelated sentinel")
	}
}

func TestWithDetailsKeepsCodeAndMessage(t *testing.T) {
	details := []string{"email is already in use", "username already exists"}
	err := WithDetails(ErrIdentityConflict, details)

	if !errors.Is(err, ErrIdentityConflict) {
		t.Error("detailed error does not match its sentinel")
	}
	if err.Message != ErrIdentityConflict.Message {
		t.Errorf("Message = %q, want %q", err.Message, ErrIdentityConflict.Message)
	}
	if len(err.Details) != 2 {
		t.Errorf("Details = %v, want two entries", err.Details)
	}
	if len(ErrIdentityConflict.Details) != 0 {
		t.Error("WithDetails mutated the shared sentinel")
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"missing identity", ErrMissingIdentity, http.StatusBadRequest},
		{"identity conflict", ErrIdentityConflict, http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"user not found", ErrUserNotFound, http.StatusUnauthorized},
		{"duplicate identity", ErrDuplicateIdentity, http.StatusConflict},
		{"service unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetErrorMessageHidesWrappedInternals(t *testing.T) {
	wrapped := WrapError(ErrInternal, fmt.Errorf("pq: connection refused on 10.0.0.5"))

	msg := GetErrorMessage(wrapped)
	if msg != ErrInternal.Message {
		t.Errorf("GetErrorMessage() = %q, want %q", msg, ErrInternal.Message)
	}
}

func TestMissingIdentityMessage(t *testing.T) {
	if ErrMissingIdentity.Message != "user's identification is missing" {
		t.Errorf("unexpected message: %q", ErrMissingIdentity.Message)
	}
}
