package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus represents the status of a session token
type TokenStatus int

const (
	TokenMissing TokenStatus = iota
	TokenInvalid
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"TokenMissing", "TokenInvalid", "TokenExpired", "TokenValid"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// CheckTokenStatus inspects a session token without verifying its signature.
//
// The API decides whether a token is acceptable, so this is informational only: a token reported as invalid
// (for instance an opaque, non-JWT token) is still sent with requests.
// Tokens without an exp claim are reported as valid.
func CheckTokenStatus(token string, now time.Time) TokenStatus {
	if token == "" || token == "undefined" {
		return TokenMissing
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return TokenInvalid
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return TokenExpired
	}

	return TokenValid
}

// TokenExpiry returns the token's exp claim, if it is a JWT that has one
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
