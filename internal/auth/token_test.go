package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", 0)

	token, err := codec.Issue("alice", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want alice", claims.Username)
	}
	if claims.UserID != "u1" {
		t.Errorf("user_id = %q, want u1", claims.UserID)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("expected no expiry claim without TTL, got %v", claims.ExpiresAt)
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec("test-secret", time.Minute)
	codec.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := codec.Issue("alice", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	codec.now = time.Now
	_, err = codec.Verify(token)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("verify expired token: got %v, want ErrExpired", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	codec := NewCodec("test-secret", 0)

	token, err := codec.Issue("alice", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + ".eyJ1c2VybmFtZSI6Im1hbGxvcnkifQ." + parts[2]

	_, err = codec.Verify(tampered)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("verify tampered token: got %v, want ErrMalformed", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewCodec("secret-a", 0).Issue("alice", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = NewCodec("secret-b", 0).Verify(token)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("verify with wrong secret: got %v, want ErrMalformed", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewCodec("test-secret", 0).Verify("invalid.token.payload")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("verify garbage: got %v, want ErrMalformed", err)
	}
}

func TestIssueWithTTLSetsExpiry(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	token, err := codec.Issue("bob", "u2")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry claim with TTL configured")
	}
	if remaining := time.Until(claims.ExpiresAt.Time); remaining < 55*time.Minute {
		t.Errorf("expiry too soon: %v remaining", remaining)
	}
}
