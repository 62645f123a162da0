package clierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/habedi/mscli/auth"
	"github.com/habedi/mscli/client"
)

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("connection reset")
	err := New(Network, "network failed", underlying)

	if err.Error() != "network failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "network failed")
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
	if New(Validation, "x", nil).Unwrap() != nil {
		t.Error("Unwrap() with nil underlying should be nil")
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType Type
		wantCode int
	}{
		{"session expired", fmt.Errorf("%w: refresh failed", auth.ErrSessionExpired), Auth, 3},
		{"bad login", fmt.Errorf("%w: Bad credentials", auth.ErrInvalidCredentials), Auth, 3},
		{"not logged in", auth.ErrNotAuthenticated, Auth, 3},
		{"forbidden sentinel", auth.ErrForbidden, Forbidden, 3},
		{"not found", &client.StatusError{Status: 404, Message: "Customer not found"}, NotFound, 4},
		{"validation", &client.StatusError{Status: 400, Errors: map[string]string{"email": "invalid"}}, Validation, 2},
		{"server error", &client.StatusError{Status: 503}, Network, 5},
		{"timeout", context.DeadlineExceeded, Network, 5},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, Network, 5},
		{"invalid input", fmt.Errorf("%w: email cannot be empty", auth.ErrInvalidInput), Validation, 2},
		{"other", errors.New("boom"), Internal, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("FromError().Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.ExitCode() != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got.ExitCode(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestFromError_PassThroughAndNil(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}
	orig := New(Validation, "ID must be positive", nil)
	if got := FromError(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("FromError() = %v, want the original *Error", got)
	}
}
