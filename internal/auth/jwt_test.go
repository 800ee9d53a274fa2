package auth

import (
	"strings"
	"testing"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	token, err := GenerateJWT(42, "mdurand")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Login != "mdurand" {
		t.Errorf("expected login mdurand, got %s", claims.Login)
	}
	if claims.Issuer != "annuaire" {
		t.Errorf("expected issuer annuaire, got %s", claims.Issuer)
	}
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	token, err := GenerateJWT(7, "jdupont")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	// Corrupt the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	if _, err := ValidateJWT(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
