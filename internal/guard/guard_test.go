package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"exploranotes/internal/auth"
	"exploranotes/internal/school"
	"exploranotes/internal/session"

	"github.com/gin-gonic/gin"
)

func anonymous() session.Session { return session.Anonymous() }

func teacher(verified bool) session.Session {
	return session.Session{
		IsAuthenticated: true,
		UID:             "t1",
		AccountType:     auth.AccountTypeTeacher,
		Email:           "t@exemple.fr",
		Name:            "T",
		EmailVerified:   verified,
	}
}

func student() session.Session {
	s := teacher(true)
	s.AccountType = auth.AccountTypeStudent
	return s
}

func TestEvaluate(t *testing.T) {
	noSchool := school.Membership{}
	confirmed := school.Membership{SchoolID: "s1", SchoolName: "Condorcet"}
	pending := school.Membership{PendingSchoolID: "s1"}

	cases := []struct {
		name   string
		method string
		path   string
		sess   session.Session
		m      school.Membership
		want   Decision
	}{
		// Scenario A: anonymous on a dashboard route goes home.
		{"anonymous dashboard", http.MethodGet, "/teacher/groups", anonymous(), noSchool,
			Decision{Verdict: Redirect, Location: "/", Status: 303}},
		// Scenario B: unverified teacher hits the verification gate, not the
		// school gate, even with a confirmed school on file.
		{"unverified teacher dashboard", http.MethodGet, "/teacher/groups", teacher(false), confirmed,
			Decision{Verdict: Redirect, Location: "/signup/email-verif", Status: 303}},
		// Scenario C: verified teacher without a school is sent to pick one.
		{"no school dashboard", http.MethodGet, "/teacher/groups", teacher(true), noSchool,
			Decision{Verdict: Redirect, Location: "/teacher/select-school", Status: 303}},
		{"pending dashboard", http.MethodGet, "/teacher/students", teacher(true), pending,
			Decision{Verdict: Redirect, Location: "/teacher/select-school", Status: 303}},
		// Scenario D: students never enter the teacher area.
		{"student teacher area", http.MethodGet, "/teacher/anything", student(), noSchool,
			Decision{Verdict: Redirect, Location: "/", Status: 303}},

		{"active dashboard", http.MethodGet, "/teacher/groups", teacher(true), confirmed,
			Decision{Verdict: Allow}},
		{"select-school without school", http.MethodGet, "/teacher/select-school", teacher(true), noSchool,
			Decision{Verdict: Allow}},
		{"new-school without school", http.MethodGet, "/teacher/new-school", teacher(true), noSchool,
			Decision{Verdict: Allow}},

		{"authenticated signin", http.MethodGet, "/signin", teacher(true), noSchool,
			Decision{Verdict: Redirect, Location: "/", Status: 303}},
		{"authenticated signup", http.MethodGet, "/signup", student(), noSchool,
			Decision{Verdict: Redirect, Location: "/", Status: 303}},
		{"anonymous signin", http.MethodGet, "/signin", anonymous(), noSchool,
			Decision{Verdict: Allow}},

		{"verified on email-verif", http.MethodGet, "/signup/email-verif", teacher(true), noSchool,
			Decision{Verdict: Redirect, Location: "/", Status: 303}},
		{"unverified on email-verif", http.MethodGet, "/signup/email-verif", teacher(false), noSchool,
			Decision{Verdict: Allow}},
		{"anonymous email-verif page", http.MethodGet, "/signup/email-verif", anonymous(), noSchool,
			Decision{Verdict: Redirect, Location: "/", Status: 303}},
		{"anonymous resend action", http.MethodPost, "/signup/email-verif", anonymous(), noSchool,
			Decision{Verdict: Deny, Status: 401}},
		{"confirm link is public", http.MethodPost, "/signup/email-verif/some.signed.token", anonymous(), noSchool,
			Decision{Verdict: Allow}},

		{"anonymous teacher action", http.MethodPost, "/teacher/select-school", anonymous(), noSchool,
			Decision{Verdict: Deny, Status: 401}},
		{"public route", http.MethodGet, "/healthz", anonymous(), noSchool,
			Decision{Verdict: Allow}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.method, tc.path, tc.sess, tc.m); got != tc.want {
				t.Fatalf("Evaluate(%s %s) = %+v, want %+v", tc.method, tc.path, got, tc.want)
			}
		})
	}
}

func withSession(s session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), s))
		c.Next()
	}
}

func TestMiddlewarePopulatesSchoolOnDashboardRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := school.NewMemoryRepo()
	if err := repo.CreateSchool(context.Background(), school.School{ID: "s1", Name: "Condorcet"}, "t1"); err != nil {
		t.Fatalf("seed school: %v", err)
	}

	var seen session.Session
	r := gin.New()
	r.Use(withSession(teacher(true)), New(repo).Middleware())
	r.GET("/teacher/groups", func(c *gin.Context) {
		seen = session.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teacher/groups", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen.School.ID != "s1" || seen.School.Name != "Condorcet" {
		t.Fatalf("handler should see the fetched school, got %+v", seen.School)
	}
}

func TestMiddlewareSkipsMembershipOutsideDashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	// A nil fetcher panics if consulted; home page must not consult it.
	r.Use(withSession(teacher(true)), New(nil).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

type failingFetcher struct{}

func (failingFetcher) FetchMembership(ctx context.Context, uid string) (school.Membership, error) {
	return school.Membership{}, errors.New("store down")
}

func TestMiddlewareFailsClosedWhenMembershipUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(withSession(teacher(true)), New(failingFetcher{}).Middleware())
	r.GET("/teacher/groups", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teacher/groups", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("membership outage must fail closed, got %d", w.Code)
	}
}

func TestMiddlewareRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(withSession(anonymous()), New(nil).Middleware())
	r.GET("/teacher/groups", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teacher/groups", nil))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect home, got %q", loc)
	}
}
