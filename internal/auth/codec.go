package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"exploranotes/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, malformed payload, missing subject. Callers must treat
// all of them identically as "no session"; the reasons are logged, never
// surfaced, so an attacker cannot tell a forged token from an expired one.
var ErrInvalidToken = errors.New("auth: invalid token")

// Codec signs and verifies session tokens with an ES256 key pair.
// The key pair is process-wide and read-only after startup.
type Codec struct {
	signKey   *ecdsa.PrivateKey
	verifyKey *ecdsa.PublicKey

	sessionTTL    time.Duration
	unverifiedTTL time.Duration
}

func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if cfg.SigningKeyPEM == "" || cfg.VerifyKeyPEM == "" {
		return nil, errors.New("auth: signing and verify keys are required")
	}
	signKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(cfg.SigningKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("auth: parse signing key: %w", err)
	}
	verifyKey, err := jwt.ParseECPublicKeyFromPEM([]byte(cfg.VerifyKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("auth: parse verify key: %w", err)
	}
	return NewCodecFromKeys(signKey, verifyKey, cfg.SessionTTL, cfg.UnverifiedTTL), nil
}

// NewCodecFromKeys wires a codec from already-parsed keys.
func NewCodecFromKeys(signKey *ecdsa.PrivateKey, verifyKey *ecdsa.PublicKey, sessionTTL, unverifiedTTL time.Duration) *Codec {
	if sessionTTL <= 0 {
		sessionTTL = 365 * 24 * time.Hour
	}
	if unverifiedTTL <= 0 {
		unverifiedTTL = 30 * 24 * time.Hour
	}
	return &Codec{
		signKey:       signKey,
		verifyKey:     verifyKey,
		sessionTTL:    sessionTTL,
		unverifiedTTL: unverifiedTTL,
	}
}

// SessionTTL returns the cookie lifetime matching the token that IssueSession
// would mint for the given verification status.
func (c *Codec) SessionTTL(verified bool) time.Duration {
	if verified {
		return c.sessionTTL
	}
	return c.unverifiedTTL
}

/* ===================== ISSUE TOKENS ===================== */

// IssueSession mints a session token for id.
//
// Verified identities get the long TTL and the verifiedEmail claim is omitted
// entirely; unverified identities get the short TTL and an explicit
// verifiedEmail=false. A claim can only change by re-issuing the token.
func (c *Codec) IssueSession(now time.Time, id Identity) (string, time.Duration, error) {
	ttl := c.SessionTTL(id.VerifiedEmail)

	claims := Claims{
		AccountType: id.AccountType,
		UID:         id.UID,
		Email:       id.Email,
		Name:        id.Name,
	}
	if !id.VerifiedEmail {
		v := false
		claims.VerifiedEmail = &v
	}

	tok, err := c.issue(now, ttl, claims)
	return tok, ttl, err
}

// IssueAcceptToken mints the short token embedded in accept-teacher email
// links. It carries only the joining teacher's uid; the acting admin still
// authenticates with their own session.
func (c *Codec) IssueAcceptToken(now time.Time, uid string) (string, error) {
	return c.issue(now, c.unverifiedTTL, Claims{UID: uid})
}

func (c *Codec) issue(now time.Time, ttl time.Duration, claims Claims) (string, error) {
	if c.signKey == nil {
		return "", errors.New("auth: codec has no signing key")
	}
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	return t.SignedString(c.signKey)
}

/* ===================== VERIFY TOKEN ===================== */

// Verify decodes and checks a token against the trusted public key.
// The algorithm allow-list is fixed to ES256; a token whose header names any
// other method is rejected before signature checking.
func (c *Codec) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return c.verifyKey, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	validator := jwt.NewValidator(
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30*time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err := validator.Validate(claims.RegisteredClaims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// Schema check: a structurally valid JWT without a subject is still junk.
	if claims.UID == "" {
		return Claims{}, fmt.Errorf("%w: uid missing", ErrInvalidToken)
	}

	return claims, nil
}

// VerifySession is Verify plus the session-only claim checks.
// Accept-link tokens do not pass it.
func (c *Codec) VerifySession(tokenString string, now time.Time) (Claims, error) {
	claims, err := c.Verify(tokenString, now)
	if err != nil {
		return Claims{}, err
	}
	if claims.AccountType != AccountTypeTeacher && claims.AccountType != AccountTypeStudent {
		return Claims{}, fmt.Errorf("%w: unknown accountType", ErrInvalidToken)
	}
	if claims.Email == "" {
		return Claims{}, fmt.Errorf("%w: email missing", ErrInvalidToken)
	}
	return claims, nil
}
