package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected subject 'user-1', got %q", userID)
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewIssuer("secret-a", time.Hour)
	other, _ := NewIssuer("secret-b", time.Hour)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer, _ := NewIssuer("test-secret", time.Hour)

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestIssuer_RejectsGarbage(t *testing.T) {
	issuer, _ := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}
