// Package guard maps (route, session, membership) to an authorization
// decision. It consumes the onboarding stage; it never computes identity
// facts of its own.
package guard

import (
	"net/http"
	"strings"

	"exploranotes/internal/onboarding"
	"exploranotes/internal/school"
	"exploranotes/internal/session"
)

type Verdict int

const (
	Allow Verdict = iota
	Redirect
	Deny
)

// Decision is the outcome of evaluating a route against a session.
type Decision struct {
	Verdict  Verdict
	Location string // redirect target, Redirect only
	Status   int    // 303 for Redirect, 401/403 for Deny
}

func allowed() Decision { return Decision{Verdict: Allow} }

func redirectTo(location string) Decision {
	return Decision{Verdict: Redirect, Location: location, Status: http.StatusSeeOther}
}

func deny(status int) Decision {
	return Decision{Verdict: Deny, Status: status}
}

// Route targets. Kept as constants so guard and handlers agree.
const (
	PathHome         = "/"
	PathSignin       = "/signin"
	PathSignup       = "/signup"
	PathEmailVerif   = "/signup/email-verif"
	PathTeacher      = "/teacher"
	PathSelectSchool = "/teacher/select-school"
	PathNewSchool    = "/teacher/new-school"
)

// dashboardPrefixes are the teacher sub-routes that additionally require a
// confirmed school.
var dashboardPrefixes = []string{
	"/teacher/groups",
	"/teacher/students",
	"/teacher/teachers",
	"/teacher/subjects",
	"/teacher/accept-teacher",
}

func isDashboard(path string) bool {
	for _, p := range dashboardPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// NeedsMembership reports whether evaluating path for sess requires the live
// membership fact. Kept narrow so routes outside the dashboard never pay for
// the data-layer call.
func NeedsMembership(path string, sess session.Session) bool {
	return isDashboard(path) && sess.IsTeacher() && sess.EmailVerified
}

// Evaluate returns the decision for one request.
//
// Checks short-circuit in the fixed stage order (authentication, email
// verification, role, school membership); the first failing check decides,
// so a caller who fails a coarse check learns nothing about finer state.
// Fine-grained admin relations are checked by the handlers themselves.
//
// Page requests that fail authentication are redirected home; mutating
// requests get a bare 401 instead.
func Evaluate(method, path string, sess session.Session, m school.Membership) Decision {
	stage := onboarding.Classify(sess, m)
	mutating := method != http.MethodGet && method != http.MethodHead

	switch {
	case path == PathSignin || path == PathSignup:
		// Later-stage users have nothing to do on the entry pages.
		if stage != onboarding.Anonymous {
			return redirectTo(PathHome)
		}
		return allowed()

	case path == PathEmailVerif:
		if stage == onboarding.Anonymous {
			if mutating {
				return deny(http.StatusUnauthorized)
			}
			return redirectTo(PathHome)
		}
		if sess.EmailVerified {
			return redirectTo(PathHome)
		}
		return allowed()

	case strings.HasPrefix(path, PathEmailVerif+"/"):
		// The confirmation link: the signed token in the URL is the
		// credential, so the route itself is public.
		return allowed()

	case path == PathTeacher || strings.HasPrefix(path, PathTeacher+"/"):
		if stage == onboarding.Anonymous {
			if mutating {
				return deny(http.StatusUnauthorized)
			}
			return redirectTo(PathHome)
		}
		if !sess.IsTeacher() {
			return redirectTo(PathHome)
		}
		if stage == onboarding.EmailUnverified {
			// Verification gate fires before any school consideration.
			return redirectTo(PathEmailVerif)
		}
		if isDashboard(path) && stage != onboarding.Active {
			return redirectTo(PathSelectSchool)
		}
		return allowed()
	}

	return allowed()
}
