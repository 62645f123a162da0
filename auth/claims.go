package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the readable part of an access token.
type TokenInfo struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PeekClaims decodes an access token without verifying its signature.
// The result is for display only; expiry is decided by the server.
func PeekClaims(raw string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("failed to decode access token: %w", err)
	}

	var info TokenInfo
	info.Subject, _ = claims.GetSubject()
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
