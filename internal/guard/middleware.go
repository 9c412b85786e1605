package guard

import (
	"context"
	"net/http"

	"exploranotes/internal/school"
	"exploranotes/internal/session"
	"exploranotes/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MembershipFetcher is the single data-layer read the guard depends on.
// school.Repository satisfies it.
type MembershipFetcher interface {
	FetchMembership(ctx context.Context, uid string) (school.Membership, error)
}

// Guard applies the route policy on every request, after session resolution.
type Guard struct {
	memberships MembershipFetcher
}

func New(memberships MembershipFetcher) *Guard {
	return &Guard{memberships: memberships}
}

// Middleware evaluates the guard policy for the request path.
//
// Dashboard routes trigger the live membership fetch; the fetched fact is
// folded into the session so handlers see a populated School. The fetch is
// fail-closed: without the membership fact we cannot authorize, so the
// request dies rather than guessing.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c.Request.Context())
		path := c.Request.URL.Path

		var m school.Membership
		if NeedsMembership(path, sess) {
			var err error
			m, err = g.memberships.FetchMembership(c.Request.Context(), sess.UID)
			if err != nil {
				logger.FromGin(c).Error("membership fetch failed", "uid", sess.UID, "err", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "service unavailable"})
				return
			}
			sess = sess.WithSchool(session.SchoolRef{ID: m.SchoolID, Name: m.SchoolName}, m.PendingSchoolID)
			c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), sess))
		}

		switch d := Evaluate(c.Request.Method, path, sess, m); d.Verdict {
		case Redirect:
			c.Redirect(d.Status, d.Location)
			c.Abort()
		case Deny:
			c.AbortWithStatusJSON(d.Status, gin.H{"error": http.StatusText(d.Status)})
		default:
			c.Next()
		}
	}
}
