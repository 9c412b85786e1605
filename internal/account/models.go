package account

import (
	"time"

	"exploranotes/internal/auth"
)

// Account is a registered user, teacher or student.
//
// PasswordHash is a bcrypt hash; the clear password never leaves the signup
// and signin handlers. VerifiedEmail flips to true exactly once, via the
// emailed confirmation link, and never back.
type Account struct {
	ID          string `json:"uid" db:"id"`
	AccountType string `json:"accountType" db:"account_type"`

	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	// Name is the display name, "FirstName LastName" at signup time.
	Name string `json:"name" db:"name"`

	Email         string `json:"email" db:"email"`
	PasswordHash  string `json:"-" db:"password_hash"`
	VerifiedEmail bool   `json:"verifiedEmail" db:"verified_email"`

	CreatedAt time.Time `json:"creationDate" db:"created_at"`
}

// Identity is the subset of the account that goes into session tokens.
func (a Account) Identity() auth.Identity {
	return auth.Identity{
		UID:           a.ID,
		AccountType:   a.AccountType,
		Email:         a.Email,
		Name:          a.Name,
		VerifiedEmail: a.VerifiedEmail,
	}
}
