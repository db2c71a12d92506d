package identity

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const testSecret = "client-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() Claims {
	return Claims{
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "google-uid-1",
			Issuer:    "accounts.example.com",
			Audience:  jwtlib.ClaimStrings{"todo-app"},
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestDecodeValidToken(t *testing.T) {
	d := NewDecoder(testSecret, "accounts.example.com", "todo-app")
	profile, err := d.Decode(signToken(t, validClaims(), testSecret))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.GoogleID != "google-uid-1" {
		t.Fatalf("unexpected google id: %q", profile.GoogleID)
	}
	if profile.Email != "ada@example.com" {
		t.Fatalf("unexpected email: %q", profile.Email)
	}
	if profile.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected name: %q", profile.FullName)
	}
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	d := NewDecoder(testSecret, "accounts.example.com", "todo-app")
	if _, err := d.Decode(signToken(t, validClaims(), "other-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecodeRejectsWrongAudience(t *testing.T) {
	claims := validClaims()
	claims.Audience = jwtlib.ClaimStrings{"someone-else"}
	d := NewDecoder(testSecret, "accounts.example.com", "todo-app")
	if _, err := d.Decode(signToken(t, claims, testSecret)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecodeRejectsWrongIssuer(t *testing.T) {
	claims := validClaims()
	claims.Issuer = "evil.example.com"
	d := NewDecoder(testSecret, "accounts.example.com", "todo-app")
	if _, err := d.Decode(signToken(t, claims, testSecret)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwtlib.NewNumericDate(time.Now().Add(-time.Minute))
	d := NewDecoder(testSecret, "accounts.example.com", "todo-app")
	if _, err := d.Decode(signToken(t, claims, testSecret)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecodeRejectsMissingSubject(t *testing.T) {
	claims := validClaims()
	claims.Subject = ""
	d := NewDecoder(testSecret, "accounts.example.com", "todo-app")
	if _, err := d.Decode(signToken(t, claims, testSecret)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
