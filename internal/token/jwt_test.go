package token_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/ErlanBelekov/auth-service/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "token-test-secret-at-least-32-chars!"

func TestIssueVerify_RoundTrip(t *testing.T) {
	iss := token.NewIssuer([]byte(testSecret), time.Hour)

	tok, err := iss.Issue(domain.Claims{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("id = %q, want %q", got.ID, "user-1")
	}
}

func TestIssue_PayloadCarriesOnlyIDAndTimes(t *testing.T) {
	iss := token.NewIssuer([]byte(testSecret), time.Hour)

	tok, err := iss.Issue(domain.Claims{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, mc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	for k := range mc {
		switch k {
		case "id", "iat", "exp":
		default:
			t.Errorf("unexpected claim %q", k)
		}
	}
	if mc["id"] != "user-1" {
		t.Errorf("id claim = %v", mc["id"])
	}
}

func TestIssue_EmptyID(t *testing.T) {
	iss := token.NewIssuer([]byte(testSecret), time.Hour)
	if _, err := iss.Issue(domain.Claims{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	iss := token.NewIssuer([]byte(testSecret), time.Minute, token.WithClock(func() time.Time { return now }))

	tok, err := iss.Issue(domain.Claims{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := token.NewIssuer([]byte(testSecret), time.Minute, token.WithClock(func() time.Time {
		return now.Add(2 * time.Minute)
	}))
	if _, err := later.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}

	if _, err := iss.Verify(tok); err != nil {
		t.Errorf("token should still verify before expiry: %v", err)
	}
}

func TestVerify_NegativeTTL(t *testing.T) {
	iss := token.NewIssuer([]byte(testSecret), -time.Second)

	tok, err := iss.Issue(domain.Claims{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := iss.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := token.NewIssuer([]byte("another-secret-that-is-32-chars!!"), time.Hour).
		Issue(domain.Claims{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = token.NewIssuer([]byte(testSecret), time.Hour).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	iss := token.NewIssuer([]byte(testSecret), time.Hour)

	for _, raw := range []string{"", "not.a.jwt", "abc", strings.Repeat("x", 40)} {
		if _, err := iss.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q): want ErrTokenInvalid, got %v", raw, err)
		}
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	iss := token.NewIssuer([]byte(testSecret), time.Hour)

	tok, err := iss.Issue(domain.Claims{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, err := iss.Issue(domain.Claims{ID: "user-2"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// user-2 payload with user-1 signature
	a := strings.Split(tok, ".")
	b := strings.Split(forged, ".")
	spliced := a[0] + "." + b[1] + "." + a[2]

	if _, err := iss.Verify(spliced); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = token.NewIssuer([]byte(testSecret), time.Hour).Verify(raw)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	t0 := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "user-1"})
	raw, err := t0.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = token.NewIssuer([]byte(testSecret), time.Hour).Verify(raw)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_MissingID(t *testing.T) {
	t0 := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := t0.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = token.NewIssuer([]byte(testSecret), time.Hour).Verify(raw)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}
