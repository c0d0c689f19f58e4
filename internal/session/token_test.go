package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestCheckTokenStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	validToken := signedToken(t, jwt.RegisteredClaims{
		Subject:   "athlete-5",
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
	})
	expiredToken := signedToken(t, jwt.RegisteredClaims{
		Subject:   "athlete-5",
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	})
	noExpiryToken := signedToken(t, jwt.RegisteredClaims{Subject: "athlete-5"})

	tests := []struct {
		name  string
		token string
		want  TokenStatus
	}{
		{"empty token", "", TokenMissing},
		{"stringified undefined", "undefined", TokenMissing},
		{"opaque token", "abc123", TokenInvalid},
		{"malformed jwt", "a.b.c", TokenInvalid},
		{"valid jwt", validToken, TokenValid},
		{"expired jwt", expiredToken, TokenExpired},
		{"jwt without expiry", noExpiryToken, TokenValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckTokenStatus(tt.token, now); got != tt.want {
				t.Errorf("CheckTokenStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, ok := TokenExpiry(token)
	if !ok || !got.Equal(exp) {
		t.Errorf("TokenExpiry() = %v, %v, want %v, true", got, ok, exp)
	}

	if _, ok := TokenExpiry("abc123"); ok {
		t.Error("TokenExpiry() ok = true for an opaque token")
	}
}

func TestTokenStatusString(t *testing.T) {
	if TokenExpired.String() != "TokenExpired" {
		t.Errorf("String() = %q", TokenExpired.String())
	}
	if TokenStatus(9).String() != "TokenStatus(9)" {
		t.Errorf("String() = %q", TokenStatus(9).String())
	}
}
