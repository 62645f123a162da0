package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/habedi/mscli/db"
	"github.com/habedi/mscli/pkg/validation"
	"github.com/rs/zerolog/log"
)

// Coordinator owns login, logout and refresh against the Auth service.
// It is the only writer of the credential store.
type Coordinator struct {
	api   API
	store CredentialStore
	nav   Navigator
}

// NewCoordinator is the constructor for the auth coordinator.
func NewCoordinator(api API, store CredentialStore, nav Navigator) *Coordinator {
	return &Coordinator{api: api, store: store, nav: nav}
}

// Store exposes the credential store for read-only collaborators such as the request interceptor.
func (c *Coordinator) Store() CredentialStore { return c.store }

// Login authenticates against the Auth service and persists the returned session.
// Errors from the service are returned untouched.
func (c *Coordinator) Login(ctx context.Context, email, password string) (db.Session, error) {
	sess, err := c.api.Login(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Msg("Login rejected")
		return db.Session{}, err
	}
	c.store.Save(sess)
	log.Info().Str("user_id", sess.UserID).Str("role", sess.Role).Msg("Logged in")
	return sess, nil
}

// Register creates an account. It does not sign the user in.
func (c *Coordinator) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	if err := errors.Join(
		validation.ValidateNonEmptyString("first name", req.FirstName),
		validation.ValidateNonEmptyString("last name", req.LastName),
		validation.ValidateEmail(req.Email),
		validation.ValidatePassword(req.Password),
	); err != nil {
		return RegisterResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	res, err := c.api.Register(ctx, req)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("failed to register %s: %w", req.Email, err)
	}
	log.Info().Str("user_id", res.UserID).Msg("Account registered")
	return res, nil
}

// Logout notifies the Auth service when a refresh token is stored, then always
// clears the store and navigates to login once. The service outcome is ignored.
func (c *Coordinator) Logout(ctx context.Context) {
	if sess, ok := c.store.Read(); ok && sess.RefreshToken != "" {
		if err := c.api.Logout(ctx, sess.RefreshToken); err != nil {
			log.Warn().Err(err).Msg("Logout notification failed, clearing local session anyway")
		}
	}
	c.store.Clear()
	c.nav.ToLogin()
	log.Info().Msg("Logged out")
}

// Refresh obtains a new access token with the stored refresh token. Only the
// access token is updated. Any failure forces a logout and yields ErrSessionExpired.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	sess, ok := c.store.Read()
	if !ok || sess.RefreshToken == "" {
		c.ForceLogout("no refresh token stored")
		return "", ErrSessionExpired
	}

	renewed, err := c.api.Refresh(ctx, sess.RefreshToken)
	if err == nil && renewed.AccessToken == "" {
		err = errors.New("refresh response carried no access token")
	}
	if err != nil {
		c.ForceLogout("token refresh failed")
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	c.store.UpdateAccessToken(renewed.AccessToken)
	log.Info().Msg("Access token refreshed")
	return renewed.AccessToken, nil
}

// ForceLogout clears the session and sends the user to login without contacting the Auth service.
func (c *Coordinator) ForceLogout(reason string) {
	c.store.Clear()
	c.nav.ToLogin()
	log.Warn().Str("reason", reason).Msg("Forced logout")
}

// AccessToken returns the stored access token, or "" when signed out.
func (c *Coordinator) AccessToken() string {
	sess, ok := c.store.Read()
	if !ok {
		return ""
	}
	return sess.AccessToken
}

// IsAuthenticated reports whether a session is stored.
func (c *Coordinator) IsAuthenticated() bool {
	_, ok := c.store.Read()
	return ok
}

// Role returns the stored role, or "" when signed out.
func (c *Coordinator) Role() string {
	sess, ok := c.store.Read()
	if !ok {
		return ""
	}
	return sess.Role
}

// HasRole reports whether the signed-in user has role.
func (c *Coordinator) HasRole(role string) bool {
	r := c.Role()
	return r != "" && r == role
}

// CurrentUser returns the identity of the stored session.
func (c *Coordinator) CurrentUser() (User, bool) {
	sess, ok := c.store.Read()
	if !ok {
		return User{}, false
	}
	return User{Email: sess.Email, Role: sess.Role, UserID: sess.UserID}, true
}

// TokenInfo decodes the stored access token for display.
func (c *Coordinator) TokenInfo() (TokenInfo, error) {
	token := c.AccessToken()
	if token == "" {
		return TokenInfo{}, ErrNotAuthenticated
	}
	return PeekClaims(token)
}
