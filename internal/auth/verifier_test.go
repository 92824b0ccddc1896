package auth

import (
	"errors"
	"testing"
	"time"
)

func TestVerifierSignAndVerify(t *testing.T) {
	verifier := NewVerifier("test-secret", "ecoquest")

	token, err := verifier.Sign(Identity{UserID: "user-1", Email: "ana@example.com"}, Profile{DisplayName: "Ana", AvatarRef: "bulbasaur"}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, profile, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "ana@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if profile.DisplayName != "Ana" || profile.AvatarRef != "bulbasaur" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestVerifierSignValidation(t *testing.T) {
	verifier := NewVerifier("test-secret", "")
	if _, err := verifier.Sign(Identity{}, Profile{}, time.Hour); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestVerifierFailures(t *testing.T) {
	verifier := NewVerifier("test-secret", "ecoquest")

	if _, _, err := verifier.Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token got %v", err)
	}
	if _, _, err := verifier.Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token got %v", err)
	}

	other := NewVerifier("other-secret", "ecoquest")
	foreign, err := other.Sign(Identity{UserID: "user-1"}, Profile{}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := verifier.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid signature got %v", err)
	}

	wrongIssuer := NewVerifier("test-secret", "someone-else")
	token, err := wrongIssuer.Sign(Identity{UserID: "user-1"}, Profile{}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected issuer mismatch got %v", err)
	}
}

func TestVerifierExpiry(t *testing.T) {
	issued := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	verifier := NewVerifier("test-secret", "")
	verifier.NowFunc = func() time.Time { return issued }

	token, err := verifier.Sign(Identity{UserID: "user-1"}, Profile{}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	verifier.NowFunc = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected got %v", err)
	}
}
