package clierr

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/habedi/mscli/auth"
	"github.com/habedi/mscli/client"
)

// Type categorizes a CLI-facing error for consistent messaging and exit codes.
type Type string

const (
	Validation Type = "validation"
	NotFound   Type = "not_found"
	Auth       Type = "auth"
	Forbidden  Type = "forbidden"
	Network    Type = "network"
	Internal   Type = "internal"
)

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// New constructs a new CLI Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }

// ExitCode maps the error type to a process exit status.
func (e *Error) ExitCode() int {
	switch e.Type {
	case Validation:
		return 2
	case Auth, Forbidden:
		return 3
	case NotFound:
		return 4
	case Network:
		return 5
	default:
		return 1
	}
}

// FromError classifies err. Values that already are *Error pass through.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		return New(Auth, "Your session has expired. Please log in again.", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return New(Auth, "Invalid email or password.", err)
	case errors.Is(err, auth.ErrNotAuthenticated):
		return New(Auth, "You are not logged in. Run `mscli login` first.", err)
	case errors.Is(err, auth.ErrUnauthorized):
		return New(Auth, "Your credentials were rejected. Please log in again.", err)
	case errors.Is(err, auth.ErrForbidden):
		return New(Forbidden, "You are not authorized to perform this action.", err)
	case errors.Is(err, auth.ErrInvalidInput):
		return New(Validation, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return New(Network, "The request timed out.", err)
	case errors.Is(err, context.Canceled):
		return New(Internal, "Operation cancelled.", err)
	}

	var se *client.StatusError
	if errors.As(err, &se) {
		switch {
		case se.Status == http.StatusNotFound:
			return New(NotFound, se.Error(), err)
		case se.Status == http.StatusBadRequest || se.Status == http.StatusConflict || se.Status == http.StatusUnprocessableEntity:
			return New(Validation, se.Error(), err)
		case se.Status >= 500:
			return New(Network, "The service is unavailable: "+se.Error(), err)
		}
		return New(Internal, se.Error(), err)
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return New(Network, "Could not reach the gateway: "+err.Error(), err)
	}
	return New(Internal, err.Error(), err)
}
