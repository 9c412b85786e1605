package school

import "time"

// School is an institution teachers affiliate with.
type School struct {
	ID      string `json:"uid" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address" db:"address"`
	Academy string `json:"academy" db:"academy"`

	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Membership is the live affiliation fact for one teacher, fetched fresh on
// every request that needs it. It is never cached in the session token:
// an admin revoking a membership must take effect on the next request.
//
// A confirmed school and a pending join may both be stored, but gating only
// looks at the confirmed school first.
type Membership struct {
	SchoolID   string `db:"school_id"`
	SchoolName string `db:"school_name"`
	// Admin marks the teacher as an administrator of their confirmed school.
	Admin bool `db:"admin"`

	PendingSchoolID string `db:"pending_school_id"`
}

func (m Membership) HasSchool() bool  { return m.SchoolID != "" }
func (m Membership) HasPending() bool { return m.PendingSchoolID != "" }

// Member is a confirmed teacher of a school, as listed on the dashboard.
type Member struct {
	UID   string `json:"key" db:"uid"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	Admin bool   `json:"admin" db:"admin"`
}

// PendingTeacher is a join request awaiting an admin decision.
type PendingTeacher struct {
	UID        string    `json:"key" db:"uid"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	SignedUpAt time.Time `json:"signUpDate" db:"signed_up_at"`
}
