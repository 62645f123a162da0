package auth

import (
	"context"

	"github.com/habedi/mscli/db"
)

// CredentialStore holds the session of the signed-in user.
// Every method is synchronous and never fails; Clear removes all fields at once.
type CredentialStore interface {
	Save(s db.Session)
	Read() (db.Session, bool)
	Clear()
	UpdateAccessToken(token string)
}

// Navigator moves the user to the login or not-authorized view.
type Navigator interface {
	ToLogin()
	ToNotAuthorized()
}

// API is the subset of the Auth service the coordinator talks to.
type API interface {
	Login(ctx context.Context, email, password string) (db.Session, error)
	Register(ctx context.Context, req RegisterRequest) (RegisterResult, error)
	Refresh(ctx context.Context, refreshToken string) (db.Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

// RegisterRequest is the payload of a new account.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RegisterResult is what the Auth service answers to a registration.
type RegisterResult struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// User is the identity part of the stored session.
type User struct {
	Email  string
	Role   string
	UserID string
}
