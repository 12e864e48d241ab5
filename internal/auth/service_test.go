package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	token, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("username = %q, want admin", claims.Username)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewHMACService("secret-a", time.Hour).GenerateToken("admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := NewHMACService("secret-b", time.Hour).ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewHMACService("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ValidateToken(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestZeroTTLCannotSign(t *testing.T) {
	svc := NewHMACService("test-secret", 0)
	if _, err := svc.GenerateToken("admin"); err == nil {
		t.Fatal("expected an error with a zero TTL")
	}
}
