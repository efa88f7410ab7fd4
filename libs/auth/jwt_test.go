package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyHS256(t *testing.T) {
	claims := Claims{
		Sub:  "user-1",
		Name: "Ana",
		Role: "ADMIN",
		Exp:  time.Now().Add(time.Hour).Unix(),
		Iat:  time.Now().Unix(),
	}
	token, err := SignHS256(claims, "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := ParseAndVerifyHS256(token, "secret")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Sub != "user-1" || got.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestVerifyHS256_WrongSecret(t *testing.T) {
	token, err := SignHS256(Claims{Sub: "user-1"}, "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "other"); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerifyHS256_Expired(t *testing.T) {
	token, err := SignHS256(Claims{
		Sub: "user-1",
		Exp: time.Now().Add(-time.Minute).Unix(),
	}, "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "secret"); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyHS256_Malformed(t *testing.T) {
	if _, err := ParseAndVerifyHS256("not-a-token", "secret"); err == nil {
		t.Fatal("expected malformed token to fail")
	}
}
