package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names. Auth is the only security-sensitive one; the two flag cookies
// are pure presentation state readable by client scripts.
const (
	CookieAuth        = "Auth"
	CookieSidebarOpen = "SBOpen"
	CookieLargeScreen = "LGScreen"
)

// Flag cookie values are restricted to these two literals.
const (
	FlagYes = "yes"
	FlagNo  = "no"
)

// NormalizeFlag collapses any input to a valid flag value.
func NormalizeFlag(v string) string {
	if v == FlagYes {
		return FlagYes
	}
	return FlagNo
}

// SetAuthCookie writes the signed session token. Its max-age always matches
// the token TTL so the cookie and the token expire together.
func SetAuthCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieAuth, token, int(ttl/time.Second), "/", "", secure, true)
}

// SetFlagCookie writes a presentation cookie alongside the auth cookie.
// Not httpOnly: the UI reads it directly.
func SetFlagCookie(c *gin.Context, name, value string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, NormalizeFlag(value), int(ttl/time.Second), "/", "", secure, false)
}

// ClearCookies deletes the auth cookie and every preference cookie.
// The token itself cannot be revoked server-side; stateless sessions end by
// the client forgetting the cookie.
func ClearCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieAuth, "", -1, "/", "", secure, true)
	c.SetCookie(CookieSidebarOpen, "", -1, "/", "", secure, false)
	c.SetCookie(CookieLargeScreen, "", -1, "/", "", secure, false)
}
