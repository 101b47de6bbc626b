package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ac, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ac.UserID != "user-1" {
		t.Errorf("user id = %q, want %q", ac.UserID, "user-1")
	}
	if ac.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", ac.Email, "alice@example.com")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue("user-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("expected error for token signed with different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "hunter2hunter2") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected non-matching password to fail")
	}
}
