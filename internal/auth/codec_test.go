package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewCodecFromKeys(key, &key.PublicKey, 0, 0)
}

func TestIssueAndVerifySessionRoundTrip(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	id := Identity{
		UID:           "0x4e",
		AccountType:   AccountTypeTeacher,
		Email:         "marie@exemple.fr",
		Name:          "Marie Curie",
		VerifiedEmail: true,
	}
	tok, ttl, err := c.IssueSession(now, id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if ttl != 365*24*time.Hour {
		t.Fatalf("verified identity should get the long TTL, got %v", ttl)
	}

	claims, err := c.VerifySession(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got := claims.Identity(); got != id {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, id)
	}
	if claims.VerifiedEmail != nil {
		t.Fatalf("verifiedEmail claim must be omitted for verified identities")
	}
}

func TestIssueSessionUnverifiedCarriesExplicitFalse(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	tok, ttl, err := c.IssueSession(now, Identity{
		UID:         "0x4f",
		AccountType: AccountTypeStudent,
		Email:       "paul@exemple.fr",
		Name:        "Paul Valery",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if ttl != 30*24*time.Hour {
		t.Fatalf("unverified identity should get the short TTL, got %v", ttl)
	}

	claims, err := c.VerifySession(tok, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.VerifiedEmail == nil || *claims.VerifiedEmail {
		t.Fatalf("expected explicit verifiedEmail=false, got %v", claims.VerifiedEmail)
	}
	if claims.Verified() {
		t.Fatalf("Verified() must follow the literal claim value")
	}
}

func TestVerifiedDefaultsToTrueWhenClaimAbsent(t *testing.T) {
	var c Claims
	if !c.Verified() {
		t.Fatalf("absent verifiedEmail must read as verified (legacy tokens)")
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	c := testCodec(t)
	other := testCodec(t)
	now := time.Now().UTC()

	tok, _, err := other.IssueSession(now, Identity{
		UID: "0x50", AccountType: AccountTypeTeacher, Email: "x@y.fr", Name: "X", VerifiedEmail: true,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign key, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	tok, _, err := c.IssueSession(now.Add(-31*24*time.Hour), Identity{
		UID: "0x51", AccountType: AccountTypeTeacher, Email: "x@y.fr", Name: "X",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsAlgorithmConfusion(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	// Forge an HS256 token; the header names a method outside the allow-list
	// so it must be rejected regardless of its signature.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		AccountType: AccountTypeTeacher,
		UID:         "0x52",
		Email:       "x@y.fr",
		Name:        "X",
	})
	tok, err := forged.SignedString([]byte("not-a-real-secret"))
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}
	if _, err := c.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS256 token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	for _, tok := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		if _, err := c.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestVerifyRejectsMissingUID(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	tok, err := c.issue(now, time.Hour, Claims{Email: "x@y.fr"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing uid, got %v", err)
	}
}

func TestVerifySessionRejectsAcceptToken(t *testing.T) {
	c := testCodec(t)
	now := time.Now().UTC()

	tok, err := c.IssueAcceptToken(now, "0x53")
	if err != nil {
		t.Fatalf("issue accept: %v", err)
	}
	if _, err := c.VerifySession(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("accept tokens must not resolve as sessions, got %v", err)
	}
	// But the plain Verify path accepts it for the accept-teacher flow.
	claims, err := c.Verify(tok, now)
	if err != nil {
		t.Fatalf("verify accept: %v", err)
	}
	if claims.UID != "0x53" {
		t.Fatalf("unexpected uid %q", claims.UID)
	}
}
