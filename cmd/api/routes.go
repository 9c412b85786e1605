package main

import (
	"exploranotes/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal
// modules; access gating lives in the guard middleware, not here.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", h.Healthz)
	r.GET("/", h.Home)

	// Identity
	r.POST("/signin", h.Signin)
	r.POST("/signup", h.Signup)
	r.POST("/signout", h.Signout)
	r.POST("/signup/email-verif", h.ResendVerification)
	r.POST("/signup/email-verif/:token", h.ConfirmEmail)

	// Teacher area. The guard has already enforced account type, email
	// verification and onboarding stage for everything under /teacher.
	teacher := r.Group("/teacher")
	{
		teacher.GET("", h.TeacherDashboard)
		teacher.GET("/select-school", h.ListSelectSchool)
		teacher.POST("/select-school", h.SelectSchool)
		teacher.POST("/new-school", h.NewSchool)
		teacher.GET("/teachers", h.Teachers)
		teacher.POST("/teachers/accept", h.AcceptTeacher)
		teacher.GET("/accept-teacher/:token", h.AcceptTeacherLink)
	}
}
