package onboarding

import (
	"testing"

	"exploranotes/internal/auth"
	"exploranotes/internal/school"
	"exploranotes/internal/session"
)

func teacherSession(verified bool) session.Session {
	return session.Session{
		IsAuthenticated: true,
		UID:             "t1",
		AccountType:     auth.AccountTypeTeacher,
		Email:           "t@exemple.fr",
		Name:            "T",
		EmailVerified:   verified,
	}
}

func studentSession(verified bool) session.Session {
	s := teacherSession(verified)
	s.AccountType = auth.AccountTypeStudent
	return s
}

func TestClassify(t *testing.T) {
	confirmed := school.Membership{SchoolID: "s1", SchoolName: "Lycee Condorcet"}
	pending := school.Membership{PendingSchoolID: "s1"}
	both := school.Membership{SchoolID: "s1", SchoolName: "Lycee Condorcet", PendingSchoolID: "s2"}

	cases := []struct {
		name string
		sess session.Session
		m    school.Membership
		want Stage
	}{
		{"anonymous", session.Anonymous(), school.Membership{}, Anonymous},
		{"anonymous ignores membership", session.Anonymous(), confirmed, Anonymous},
		{"unverified teacher", teacherSession(false), school.Membership{}, EmailUnverified},
		{"unverified beats school", teacherSession(false), confirmed, EmailUnverified},
		{"verified student", studentSession(true), school.Membership{}, Active},
		{"unverified student", studentSession(false), school.Membership{}, EmailUnverified},
		{"teacher without school", teacherSession(true), school.Membership{}, NoSchool},
		{"teacher pending", teacherSession(true), pending, PendingApproval},
		{"teacher confirmed", teacherSession(true), confirmed, Active},
		{"confirmed wins over pending", teacherSession(true), both, Active},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.sess, tc.m); got != tc.want {
				t.Fatalf("Classify() = %v, want %v", got, tc.want)
			}
			// Pure function: a second call with identical inputs agrees.
			if again := Classify(tc.sess, tc.m); again != tc.want {
				t.Fatalf("Classify() is not idempotent: %v then %v", tc.want, again)
			}
		})
	}
}
