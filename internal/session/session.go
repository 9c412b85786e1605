package session

import "exploranotes/internal/auth"

// SchoolRef points at a teacher's confirmed school. Zero value means none.
type SchoolRef struct {
	ID   string `json:"uid"`
	Name string `json:"name"`
}

func (r SchoolRef) IsZero() bool { return r.ID == "" }

// Session is the per-request view of who is calling. It is derived fresh on
// every request from the auth cookie and discarded with the response; nothing
// here is ever persisted.
//
// The value is immutable by convention: downstream code receives copies and
// derives new values with WithSchool instead of mutating in place.
//
// Invariants:
//   - !IsAuthenticated implies every identity field is the zero value.
//   - School/PendingSchoolID are only populated by the dashboard guard, and
//     only for teachers; resolution itself leaves them empty.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	UID             string `json:"uid,omitempty"`
	AccountType     string `json:"accountType,omitempty"`
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	EmailVerified   bool   `json:"verifiedEmail,omitempty"`

	School          SchoolRef `json:"school"`
	PendingSchoolID string    `json:"-"`
}

// Anonymous is the fully signed-out session.
func Anonymous() Session { return Session{} }

// FromClaims builds an authenticated session from verified claims.
func FromClaims(c auth.Claims) Session {
	return Session{
		IsAuthenticated: true,
		UID:             c.UID,
		AccountType:     c.AccountType,
		Email:           c.Email,
		Name:            c.Name,
		EmailVerified:   c.Verified(),
	}
}

func (s Session) IsTeacher() bool {
	return s.IsAuthenticated && s.AccountType == auth.AccountTypeTeacher
}

func (s Session) IsStudent() bool {
	return s.IsAuthenticated && s.AccountType == auth.AccountTypeStudent
}

// WithSchool returns a copy augmented with freshly fetched membership facts.
// Only teacher sessions carry a school; anything else is returned unchanged.
func (s Session) WithSchool(confirmed SchoolRef, pendingSchoolID string) Session {
	if !s.IsTeacher() {
		return s
	}
	s.School = confirmed
	s.PendingSchoolID = pendingSchoolID
	return s
}

// Identity converts back to the claim set used when re-issuing a token.
func (s Session) Identity() auth.Identity {
	return auth.Identity{
		UID:           s.UID,
		AccountType:   s.AccountType,
		Email:         s.Email,
		Name:          s.Name,
		VerifiedEmail: s.EmailVerified,
	}
}
