package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := Issue(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	userID, err := Verify(secret, token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	secret := []byte("secret")
	token, err := IssueWithClaims(secret, Claims{
		UserID:   7,
		IssuedAt: time.Now().Add(-2 * time.Hour).Unix(),
		Exp:      time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("IssueWithClaims() error = %v", err)
	}
	_, err = Verify(secret, token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	secret := []byte("secret")
	token, err := Issue(secret, 7, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	forged, err := Issue(secret, 8, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	// Signature from one token, payload from another.
	mixed := strings.Split(forged, ".")[0] + "." + strings.Split(token, ".")[1]
	if _, err := Verify(secret, mixed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Issue([]byte("secret"), 7, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := Verify([]byte("other"), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b.c", "%%%.%%%"} {
		if _, err := Verify([]byte("secret"), token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
