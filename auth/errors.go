package auth

import "errors"

var (
	// ErrSessionExpired means the session could not be renewed; the user has been logged out.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnauthorized is a 401 that does not signal an expired token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is a 403; the session stays intact.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is a rejected login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is returned by guards when no session is stored.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidInput wraps client-side validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
