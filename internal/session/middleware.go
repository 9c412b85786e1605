package session

import (
	"errors"
	"net/http"
	"time"

	"exploranotes/internal/auth"
	"exploranotes/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Resolve runs on every request before any route logic. It derives the
// session from the auth cookie, or leaves it anonymous.
//
// Resolution is read-only and idempotent: it never writes cookies, never
// redirects and never fails the request. A bad token is logged and treated
// exactly like no token at all.
func Resolve(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := Anonymous()

		tok, err := c.Cookie(CookieAuth)
		if err == nil && tok != "" {
			claims, verr := codec.VerifySession(tok, time.Now())
			if verr != nil {
				if errors.Is(verr, auth.ErrInvalidToken) {
					logger.FromGin(c).Debug("session cookie rejected", "err", verr)
				} else {
					logger.FromGin(c).Warn("session verification error", "err", verr)
				}
			} else {
				s = FromClaims(claims)
			}
		} else if err != nil && !errors.Is(err, http.ErrNoCookie) {
			logger.FromGin(c).Debug("auth cookie read failed", "err", err)
		}

		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), s))
		c.Next()
	}
}
