package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ScreenClaims are the console-issued claims embedded in a screen token:
// the screen id in "sub", its slug, and the expiry.
type ScreenClaims struct {
	ScreenID  int
	Slug      string
	ExpiresAt time.Time
}

// ParseScreenToken reads the claims out of a screen token without verifying
// the signature: the console holds the secret and verifies on every request,
// the player only inspects its own token to know who it is and when the
// token runs out.
func ParseScreenToken(tokenString string) (*ScreenClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid sub claim")
	}

	out := &ScreenClaims{ScreenID: int(sub)}
	if slug, ok := claims["slug"].(string); ok {
		out.Slug = slug
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

// ExpiresSoon reports whether the token runs out within the next day, so the
// player can warn loudly before the console starts rejecting it.
func (c *ScreenClaims) ExpiresSoon(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(24 * time.Hour).After(c.ExpiresAt)
}
