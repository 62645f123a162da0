package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/habedi/mscli/auth"
	"github.com/habedi/mscli/db"
)

// AuthAPI talks to the Auth service. Its handler must not include the
// interceptor; the auth endpoints manage tokens themselves.
type AuthAPI struct {
	c *Client
}

var _ auth.API = (*AuthAPI)(nil)

// NewAuthAPI creates an Auth service client rooted at baseURL
// (e.g. http://localhost:8888/AUTH-SERVICE/api/auth).
func NewAuthAPI(baseURL string, handler Handler) *AuthAPI {
	return &AuthAPI{c: NewClient(baseURL, handler)}
}

type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	Role         string `json:"role"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}

func (r authResponse) session() db.Session {
	return db.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Role:         r.Role,
		UserID:       r.UserID,
		Email:        r.Email,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges credentials for a session. A 400 or 401 from the service
// yields auth.ErrInvalidCredentials.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (db.Session, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var out authResponse
	if err := a.c.do(ctx, http.MethodPost, a.c.endpoint(nil, "login"), in, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusBadRequest) {
			return db.Session{}, fmt.Errorf("%w: %s", auth.ErrInvalidCredentials, se.Message)
		}
		return db.Session{}, err
	}
	if out.AccessToken == "" {
		return db.Session{}, errors.New("login response carried no access token")
	}
	return out.session(), nil
}

func (a *AuthAPI) Register(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResult, error) {
	var out auth.RegisterResult
	if err := a.c.do(ctx, http.MethodPost, a.c.endpoint(nil, "register"), req, &out); err != nil {
		return auth.RegisterResult{}, err
	}
	return out, nil
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (db.Session, error) {
	var out authResponse
	if err := a.c.do(ctx, http.MethodPost, a.c.endpoint(nil, "refresh"), refreshRequest{refreshToken}, &out); err != nil {
		return db.Session{}, err
	}
	return out.session(), nil
}

func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	return a.c.do(ctx, http.MethodPost, a.c.endpoint(nil, "logout"), refreshRequest{refreshToken}, nil)
}
