// Package onboarding classifies a session into the single stage that gates
// which routes and actions are reachable.
package onboarding

import (
	"exploranotes/internal/school"
	"exploranotes/internal/session"
)

// Stage is the onboarding state of the caller. A session is always in
// exactly one stage; the constants are ordered by check precedence.
type Stage int

const (
	// Anonymous: no valid session.
	Anonymous Stage = iota
	// EmailUnverified: authenticated but the address is not confirmed yet.
	EmailUnverified
	// NoSchool: verified teacher without a confirmed school or pending join.
	NoSchool
	// PendingApproval: verified teacher whose join request awaits an admin.
	PendingApproval
	// Active: verified student, or verified teacher with a confirmed school.
	Active
)

func (s Stage) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case EmailUnverified:
		return "email-unverified"
	case NoSchool:
		return "no-school"
	case PendingApproval:
		return "pending-approval"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Classify computes the stage from a resolved session and the freshly
// fetched membership fact. It is a pure function: same inputs, same stage.
//
// Checks run in fixed precedence — authentication, then email verification,
// then role, then school membership — and the first failing check decides.
// Membership is ignored for students and for unverified sessions, so callers
// that only need those coarser stages may pass a zero Membership.
func Classify(s session.Session, m school.Membership) Stage {
	switch {
	case !s.IsAuthenticated:
		return Anonymous
	case !s.EmailVerified:
		return EmailUnverified
	case s.IsStudent():
		return Active
	case m.HasSchool():
		return Active
	case m.HasPending():
		return PendingApproval
	default:
		return NoSchool
	}
}
