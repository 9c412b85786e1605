package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"exploranotes/internal/account"
	"exploranotes/internal/audit"
	"exploranotes/internal/mailer"
	"exploranotes/internal/session"
	"exploranotes/pkg/logger"

	"github.com/gin-gonic/gin"
)

type signinRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=7"`
	SideBarOpen string `json:"sideBarOpen" binding:"omitempty,oneof=yes no"`
}

// Signin handles POST /signin.
func (h Handlers) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return
	}

	acct, err := h.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			c.JSON(http.StatusForbidden, gin.H{"message": msgBadCredentials})
			return
		}
		logger.FromGin(c).Error("authenticate failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	token, ttl, err := h.Codec.IssueSession(time.Now(), acct.Identity())
	if err != nil {
		logger.FromGin(c).Error("issue session token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.setSessionCookies(c, token, ttl, session.NormalizeFlag(req.SideBarOpen))
	h.auditSession(c, audit.EventTypeSignin, acct.ID, acct.AccountType)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Content de vous revoir, %s !", acct.Name)})
}

type signupRequest struct {
	AccountType string `json:"accountType" binding:"required,oneof=teacher student"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=7"`
	SideBarOpen string `json:"sideBarOpen" binding:"omitempty,oneof=yes no"`
}

// Signup handles POST /signup. A fresh account starts with an unverified
// email, so the issued session carries the short unverified lifetime and a
// verification email goes out in the background.
func (h Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return
	}

	acct, err := h.Accounts.Signup(c.Request.Context(), account.SignupParams{
		AccountType: req.AccountType,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgEmailTaken})
			return
		}
		logger.FromGin(c).Error("signup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	token, ttl, err := h.Codec.IssueSession(time.Now(), acct.Identity())
	if err != nil {
		logger.FromGin(c).Error("issue session token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.sendVerificationEmail(c, acct.Name, acct.Email, token)
	h.setSessionCookies(c, token, ttl, session.NormalizeFlag(req.SideBarOpen))
	h.auditSession(c, audit.EventTypeSignup, acct.ID, acct.AccountType)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Bienvenue, %s !", acct.Name)})
}

// Signout handles POST /signout. Clearing the cookies is all there is; tokens
// stay valid until expiry, which is why membership is never baked into them.
func (h Handlers) Signout(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())
	if sess.IsAuthenticated {
		h.auditSession(c, audit.EventTypeSignout, sess.UID, sess.AccountType)
	}
	session.ClearCookies(c, h.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": msgSignedOut})
}

// ResendVerification handles POST /signup/email-verif. It reuses the caller's
// current session token as the confirmation link token, throttled per account.
func (h Handlers) ResendVerification(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())

	if h.Limiter != nil {
		ok, err := h.Limiter.Allow(c.Request.Context(), sess.UID)
		if err != nil {
			logger.FromGin(c).Error("resend limiter failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": msgTooManyResends})
			return
		}
	}

	token, err := c.Cookie(session.CookieAuth)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidURLToken})
		return
	}

	h.sendVerificationEmail(c, sess.Name, sess.Email, token)
	c.JSON(http.StatusOK, gin.H{"message": msgResent})
}

type confirmEmailRequest struct {
	LargeScreen string `json:"largeScreen" binding:"omitempty,oneof=yes no"`
	SideBarOpen string `json:"sideBarOpen" binding:"omitempty,oneof=yes no"`
}

// ConfirmEmail handles POST /signup/email-verif/:token. A valid token marks
// the account verified and the session is reissued with the long lifetime.
func (h Handlers) ConfirmEmail(c *gin.Context) {
	var req confirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return
	}

	claims, err := h.Codec.Verify(c.Param("token"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidURLToken})
		return
	}

	acct, err := h.Accounts.ConfirmEmail(c.Request.Context(), claims.UID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidURLToken})
			return
		}
		logger.FromGin(c).Error("confirm email failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	// Reissue from the stored record, not the stale claims.
	token, ttl, err := h.Codec.IssueSession(time.Now(), acct.Identity())
	if err != nil {
		logger.FromGin(c).Error("issue session token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.setSessionCookies(c, token, ttl, session.NormalizeFlag(req.SideBarOpen))
	session.SetFlagCookie(c, session.CookieLargeScreen, session.NormalizeFlag(req.LargeScreen), ttl, h.CookieSecure)
	h.auditSession(c, audit.EventTypeEmailVerified, acct.ID, acct.AccountType)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s, votre inscription a bien été validée !", acct.Name)})
}

func (h Handlers) sendVerificationEmail(c *gin.Context, name, email, token string) {
	if h.Mail == nil {
		return
	}
	verifURL := h.BaseURL + "/signup/email-verif/" + token
	h.Mail.Send(c.Request.Context(), mailer.VerificationEmail(name, email, verifURL))
}

func (h Handlers) auditSession(c *gin.Context, typ audit.EventType, uid, role string) {
	h.recordAudit(c, func(ctx context.Context) error {
		return h.Audit.LogSession(ctx, typ, uid, role, c.ClientIP())
	})
}
