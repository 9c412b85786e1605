package auth

import "github.com/golang-jwt/jwt/v5"

// Account types. Keep these stable; they are part of the signed token contract.
const (
	AccountTypeTeacher = "teacher"
	AccountTypeStudent = "student"
)

// Claims is the only supported session token shape.
//
// VerifiedEmail is a *bool on purpose: older tokens were minted without the
// field once the address was confirmed, so absence must read as verified.
// Use Verified() instead of dereferencing.
//
// School membership is deliberately never embedded here. It is administratively
// revocable and must take effect without waiting for token expiry, so it is
// re-derived live on the routes that need it.
type Claims struct {
	jwt.RegisteredClaims

	AccountType   string `json:"accountType"`
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail *bool  `json:"verifiedEmail,omitempty"`
}

// Verified reports the effective email-verification status.
// Absence of the claim means verified (legacy-token compatibility).
func (c Claims) Verified() bool {
	return c.VerifiedEmail == nil || *c.VerifiedEmail
}

// Identity is the claim set handed to IssueSession. The codec decides wire
// encoding, including stripping VerifiedEmail when true.
type Identity struct {
	UID           string
	AccountType   string
	Email         string
	Name          string
	VerifiedEmail bool
}

func (c Claims) Identity() Identity {
	return Identity{
		UID:           c.UID,
		AccountType:   c.AccountType,
		Email:         c.Email,
		Name:          c.Name,
		VerifiedEmail: c.Verified(),
	}
}
