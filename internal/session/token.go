// Package session owns the console's authentication state: decoding the
// upstream bearer token, persisting the two durable credential entries, and
// the expiry-driven auto-logout. The console never verifies the token's
// signature — that is the upstream's job — it only reads the claims it
// needs to guard routes and schedule logout.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrNoSession      = errors.New("no valid session")
)

// TokenExpiry decodes the token's expiry claim. The token must have exactly
// three dot-separated segments and a future exp; anything else forces the
// unauthenticated path.
func TokenExpiry(token string, now time.Time) (time.Time, error) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, ErrMalformedToken
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}
	exp := claims.ExpiresAt.Time
	if !exp.After(now) {
		return time.Time{}, ErrTokenExpired
	}
	return exp, nil
}
