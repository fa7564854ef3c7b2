package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/errs"
)

func TestTokenRoundtrip(t *testing.T) {
	token, err := GenerateToken("64f1c0ffee0000000000abcd", "priya@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "64f1c0ffee0000000000abcd" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Email != "priya@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("64f1c0ffee0000000000abcd", "priya@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateToken(tampered); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestExpiredToken(t *testing.T) {
	now := time.Now()
	claims := Claims{
		Email: "old@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "64f1c0ffee0000000000abcd",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.JWTSecret()))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateToken(expired); !errors.Is(err, errs.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestWrongSigningMethodRejected(t *testing.T) {
	// "none" algorithm must never validate.
	claims := jwt.RegisteredClaims{Subject: "64f1c0ffee0000000000abcd"}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateToken(signed); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestMissingSubjectRejected(t *testing.T) {
	claims := Claims{
		Email: "nosub@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.JWTSecret()))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ValidateToken(signed); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Error("hash equals plain text")
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "secret124") {
		t.Error("wrong password accepted")
	}
}
