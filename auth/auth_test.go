package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("s3cret", "catalog", "catalog-admin", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestManager(t)
	tok, exp, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 || time.Until(exp) > time.Hour {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := m.Validate(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "admin" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	m.now = time.Now
	if _, err := m.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateUsesManagerClock(t *testing.T) {
	clock := time.Now().Add(48 * time.Hour)
	m, err := NewManager("s3cret", "catalog", "catalog-admin", time.Hour,
		WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	// issued in the future relative to wall time, valid on the manager's clock
	tok, _, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Validate(tok); err != nil {
		t.Fatalf("expected token to be valid at issue time, got %v", err)
	}

	clock = clock.Add(59 * time.Minute)
	if _, err := m.Validate(tok); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := m.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token after clock moved past exp, got %v", err)
	}

	clock = time.Now()
	if _, err := m.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected not-yet-valid token before nbf, got %v", err)
	}
}

func TestValidateRejectsForeignIssuerAndAudience(t *testing.T) {
	m := newTestManager(t)

	other, _ := NewManager("s3cret", "someone-else", "catalog-admin", time.Hour)
	tok, _, _ := other.Issue("admin")
	if _, err := m.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected issuer mismatch, got %v", err)
	}

	other, _ = NewManager("s3cret", "catalog", "storefront", time.Hour)
	tok, _, _ = other.Issue("admin")
	if _, err := m.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected audience mismatch, got %v", err)
	}
}

func TestValidateRejectsOtherAlgorithmsAndKeys(t *testing.T) {
	m := newTestManager(t)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "catalog",
		Audience:  jwt.ClaimStrings{"catalog-admin"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Validate(hs384); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected HS384 to be rejected, got %v", err)
	}

	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	if _, err := m.Validate(wrongKey); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected bad signature to be rejected, got %v", err)
	}

	if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected garbage to be rejected, got %v", err)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("", "", "", 0); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(h, "hunter2") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(h, "hunter3") {
		t.Fatalf("expected wrong password to fail")
	}
	if CheckPassword("not-a-hash", "hunter2") {
		t.Fatalf("expected malformed hash to fail")
	}
	if _, err := HashPassword("", 4); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
