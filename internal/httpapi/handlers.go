// Package httpapi holds the HTTP handlers. Keep these thin: parse and
// validate input, call internal services, return JSON. Authorization gating
// happens in the guard middleware before any handler runs; handlers only
// enforce the fine-grained admin relation the guard leaves to them.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"exploranotes/internal/account"
	"exploranotes/internal/audit"
	"exploranotes/internal/auth"
	"exploranotes/internal/mailer"
	"exploranotes/internal/school"
	"exploranotes/internal/session"
	"exploranotes/pkg/logger"
	"exploranotes/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// User-facing messages, matching the application's French UI copy.
const (
	msgInvalidInput    = "Le format des données entrées n'est pas valide !"
	msgBadCredentials  = "L'adresse email ou le mot de passe sont incorrects !"
	msgEmailTaken      = "Cette adresse email est déjà utilisée !"
	msgInvalidURLToken = "Le jeton de l'URL est invalide !"
	msgSignedOut       = "Vous êtes à présent déconnecté(e) !"
	msgResent          = "Un nouvel email a bien été envoyé !"
	msgJoinRequested   = "Votre demande a bien été prise en compte !"
	msgForbidden       = "Vous n'avez pas les droits nécessaires pour cette action !"
	msgTooManyResends  = "Un email vient déjà d'être envoyé, veuillez réessayer plus tard !"
)

// ResendLimiter throttles verification-email resends per account.
type ResendLimiter interface {
	Allow(ctx context.Context, uid string) (bool, error)
}

// RedisResendLimiter implements ResendLimiter with a Redis fixed window.
type RedisResendLimiter struct {
	RDB    *redis.Client
	Limit  int
	Window time.Duration
}

func (l RedisResendLimiter) Allow(ctx context.Context, uid string) (bool, error) {
	limit := l.Limit
	if limit <= 0 {
		limit = 3
	}
	window := l.Window
	if window <= 0 {
		window = 15 * time.Minute
	}
	return utils.AllowFixedWindow(ctx, l.RDB, "verifmail:"+uid, limit, window)
}

// Handlers groups HTTP handlers for dependency injection.
type Handlers struct {
	Codec    *auth.Codec
	Accounts *account.Service
	Schools  school.Repository
	Mail     mailer.Mailer
	Audit    *audit.Service
	Limiter  ResendLimiter

	// BaseURL builds the absolute links embedded in emails.
	BaseURL      string
	CookieSecure bool
}

// Healthz is the public liveness probe.
func (h Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Home returns the layout data every page starts from: the current session
// plus the two presentation flags.
func (h Handlers) Home(c *gin.Context) {
	sb, _ := c.Cookie(session.CookieSidebarOpen)
	lg, _ := c.Cookie(session.CookieLargeScreen)
	c.JSON(http.StatusOK, gin.H{
		"currentUser": session.FromContext(c.Request.Context()),
		"sideBarOpen": sb == session.FlagYes,
		"largeScreen": lg == session.FlagYes,
	})
}

// setSessionCookies writes the auth token and the sidebar flag together, with
// matching lifetimes.
func (h Handlers) setSessionCookies(c *gin.Context, token string, ttl time.Duration, sideBarOpen string) {
	session.SetAuthCookie(c, token, ttl, h.CookieSecure)
	session.SetFlagCookie(c, session.CookieSidebarOpen, sideBarOpen, ttl, h.CookieSecure)
}

// recordAudit appends an audit event, logging (not propagating) failures.
func (h Handlers) recordAudit(c *gin.Context, fn func(ctx context.Context) error) {
	if h.Audit == nil {
		return
	}
	if err := fn(c.Request.Context()); err != nil {
		logger.FromGin(c).Warn("audit append failed", "err", err)
	}
}
