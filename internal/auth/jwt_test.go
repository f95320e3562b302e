package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	tok, err := GenerateToken(secret, "ops", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != RoleAdmin {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	expired, _ := GenerateToken(secret, "ops", RoleStaff, -time.Minute)
	otherKey, _ := GenerateToken([]byte("other"), "ops", RoleStaff, time.Hour)
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": otherKey,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(secret, tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	if _, err := GenerateToken(nil, "ops", RoleAdmin, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
