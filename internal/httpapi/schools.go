package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"exploranotes/internal/audit"
	"exploranotes/internal/mailer"
	"exploranotes/internal/school"
	"exploranotes/internal/session"
	"exploranotes/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TeacherDashboard handles GET /teacher. The page is reachable at every
// onboarding stage past verification, so it reads the membership itself
// instead of relying on the guard's dashboard prefetch.
func (h Handlers) TeacherDashboard(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())

	m, err := h.Schools.FetchMembership(c.Request.Context(), sess.UID)
	if err != nil {
		logger.FromGin(c).Error("fetch membership failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schoolName":      m.SchoolName,
		"pendingSchoolID": m.PendingSchoolID,
	})
}

// ListSelectSchool handles GET /teacher/select-school: every school the
// teacher can request to join, plus their pending request if any.
func (h Handlers) ListSelectSchool(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())

	schools, err := h.Schools.ListSchools(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("list schools failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	m, err := h.Schools.FetchMembership(c.Request.Context(), sess.UID)
	if err != nil {
		logger.FromGin(c).Error("fetch membership failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schools":         schools,
		"pendingSchoolID": m.PendingSchoolID,
	})
}

type selectSchoolRequest struct {
	SchoolUID string `json:"schoolUid" binding:"required"`
}

// SelectSchool handles POST /teacher/select-school: records a pending join
// request and notifies every admin of the chosen school by email.
func (h Handlers) SelectSchool(c *gin.Context) {
	var req selectSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return
	}

	sess := session.FromContext(c.Request.Context())

	sch, err := h.Schools.GetSchool(c.Request.Context(), req.SchoolUID)
	if err != nil {
		if errors.Is(err, school.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
			return
		}
		logger.FromGin(c).Error("get school failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	if err := h.Schools.RequestJoin(c.Request.Context(), sess.UID, sch.ID); err != nil {
		logger.FromGin(c).Error("request join failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.notifyAdmins(c, sch.ID, sess)
	h.auditMembership(c, audit.EventTypeJoinRequested, sess.UID, sess.UID, sch.ID)

	c.JSON(http.StatusOK, gin.H{"message": msgJoinRequested})
}

// notifyAdmins emails each admin of schoolID an accept link for the
// requesting teacher. The link embeds a signed token naming the teacher so
// the admin can accept straight from the email.
func (h Handlers) notifyAdmins(c *gin.Context, schoolID string, sess session.Session) {
	if h.Mail == nil {
		return
	}

	admins, err := h.Schools.Admins(c.Request.Context(), schoolID)
	if err != nil {
		logger.FromGin(c).Error("list admins failed", "err", err)
		return
	}

	token, err := h.Codec.IssueAcceptToken(time.Now(), sess.UID)
	if err != nil {
		logger.FromGin(c).Error("issue accept token failed", "err", err)
		return
	}
	acceptURL := h.BaseURL + "/teacher/accept-teacher/" + token

	for _, a := range admins {
		h.Mail.Send(c.Request.Context(), mailer.JoinRequestEmail(a.Name, a.Email, sess.Name, sess.Email, acceptURL))
	}
}

type newSchoolRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Academy string `json:"academy" binding:"required"`
}

// NewSchool handles POST /teacher/new-school. The founder becomes the
// school's first confirmed member, as admin.
func (h Handlers) NewSchool(c *gin.Context) {
	var req newSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return
	}

	sess := session.FromContext(c.Request.Context())
	sch := school.School{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Address: req.Address,
		Academy: req.Academy,
	}

	if err := h.Schools.CreateSchool(c.Request.Context(), sch, sess.UID); err != nil {
		logger.FromGin(c).Error("create school failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.auditMembership(c, audit.EventTypeSchoolCreated, sess.UID, sess.UID, sch.ID)
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("L'établissement %s a bien été créé !", sch.Name)})
}

// Teachers handles GET /teacher/teachers: the confirmed members of the
// caller's school. Pending join requests are included only for admins.
func (h Handlers) Teachers(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())

	m, err := h.Schools.FetchMembership(c.Request.Context(), sess.UID)
	if err != nil {
		logger.FromGin(c).Error("fetch membership failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if !m.HasSchool() {
		c.JSON(http.StatusForbidden, gin.H{"message": msgForbidden})
		return
	}

	teachers, err := h.Schools.Teachers(c.Request.Context(), m.SchoolID)
	if err != nil {
		logger.FromGin(c).Error("list teachers failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	out := gin.H{"teachers": teachers, "isAdmin": m.Admin}
	if m.Admin {
		pending, err := h.Schools.PendingTeachers(c.Request.Context(), m.SchoolID)
		if err != nil {
			logger.FromGin(c).Error("list pending teachers failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		out["pendingTeachers"] = pending
	}
	c.JSON(http.StatusOK, out)
}

type acceptTeacherRequest struct {
	TeacherUID string `json:"teacherUid" binding:"required"`
}

// AcceptTeacher handles POST /teacher/teachers/accept from the dashboard.
func (h Handlers) AcceptTeacher(c *gin.Context) {
	var req acceptTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return
	}
	h.acceptTeacher(c, req.TeacherUID)
}

// AcceptTeacherLink handles GET /teacher/accept-teacher/:token, the path
// taken from the join-request email. The token only names the teacher; the
// admin relation is still checked against the caller's live membership.
func (h Handlers) AcceptTeacherLink(c *gin.Context) {
	claims, err := h.Codec.Verify(c.Param("token"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidURLToken})
		return
	}
	h.acceptTeacher(c, claims.UID)
}

// acceptTeacher promotes teacherUID's pending request on the caller's school.
// The admin relation is re-read here rather than trusted from any token.
func (h Handlers) acceptTeacher(c *gin.Context, teacherUID string) {
	sess := session.FromContext(c.Request.Context())

	m, err := h.Schools.FetchMembership(c.Request.Context(), sess.UID)
	if err != nil {
		logger.FromGin(c).Error("fetch membership failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if !m.HasSchool() || !m.Admin {
		c.JSON(http.StatusForbidden, gin.H{"message": msgForbidden})
		return
	}

	if err := h.Schools.AcceptTeacher(c.Request.Context(), m.SchoolID, teacherUID); err != nil {
		if errors.Is(err, school.ErrNoPendingRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidURLToken})
			return
		}
		logger.FromGin(c).Error("accept teacher failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.auditMembership(c, audit.EventTypeTeacherAccepted, sess.UID, teacherUID, m.SchoolID)
	c.JSON(http.StatusOK, gin.H{"message": "La demande a bien été acceptée !"})
}

func (h Handlers) auditMembership(c *gin.Context, typ audit.EventType, actorUID, targetUID, schoolID string) {
	h.recordAudit(c, func(ctx context.Context) error {
		return h.Audit.LogMembership(ctx, typ, actorUID, targetUID, schoolID, c.ClientIP())
	})
}
