package audit

import "time"

// Event is an immutable, append-only record of an identity-sensitive action.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; never block identity flows on
//   audit failures.
type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the identity action being recorded.
	Type EventType `json:"type" db:"type"`

	// ActorUID is the account performing the action; empty for anonymous
	// actions such as a failed signin.
	ActorUID  string `json:"actor_uid,omitempty" db:"actor_uid"`
	ActorRole string `json:"actor_role,omitempty" db:"actor_role"`

	// TargetUID is set when the action concerns another account
	// (accept-teacher).
	TargetUID string `json:"target_uid,omitempty" db:"target_uid"`
	SchoolID  string `json:"school_id,omitempty" db:"school_id"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`
	Message   string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeSignin          EventType = "signin"
	EventTypeSignout         EventType = "signout"
	EventTypeSignup          EventType = "signup"
	EventTypeEmailVerified   EventType = "email_verified"
	EventTypeJoinRequested   EventType = "join_requested"
	EventTypeTeacherAccepted EventType = "teacher_accepted"
	EventTypeSchoolCreated   EventType = "school_created"
)
