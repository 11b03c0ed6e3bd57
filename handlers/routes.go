package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/courseapi/middleware"
	"github.com/padraicbc/courseapi/models"
)

// Register installs the validator and every API route on e.
func Register(e *echo.Echo, h *Handler) {
	e.Validator = NewValidator()

	api := e.Group("/api")
	authed := mw.JWT(h.tokens)
	admin := mw.RequireRole(models.RoleAdmin)
	staff := mw.RequireRole(models.RoleAdmin, models.RoleTrainer)
	owner := mw.TrainerAccess(h.policy, "trainerId", h.log)

	// Public
	api.POST("/auth/register/trainer", h.RegisterTrainer)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh-token", h.RefreshToken)
	api.POST("/auth/forgot-password", h.ForgotPassword)
	api.POST("/auth/reset-password", h.ResetPassword)
	api.GET("/auth/reset-password", h.ResetPasswordPage)
	api.POST("/auth/confirm-email", h.ConfirmEmail)
	api.GET("/auth/confirm-email", h.ConfirmEmailPage)
	api.POST("/auth/resend-email-confirmation", h.ResendEmailConfirmation)
	api.GET("/courses", h.GetAllCourses)
	api.GET("/courses/search", h.SearchCourses)
	api.GET("/courses/:courseId", h.GetCourse)

	// Protected – require valid JWT in Authorization header
	auth := api.Group("/auth", authed)
	auth.POST("/register/admin", h.RegisterAdmin, admin)
	auth.GET("/me", h.Me)
	auth.POST("/revoke-token", h.RevokeToken)
	auth.POST("/change-password", h.ChangePassword)

	courses := api.Group("/courses", authed)
	courses.POST("", h.CreateCourse, staff)
	courses.PUT("/:courseId", h.UpdateCourse, staff)
	courses.DELETE("/:courseId", h.DeleteCourse, admin)

	trainers := api.Group("/trainers", authed)
	trainers.GET("", h.GetAllTrainers, admin)
	trainers.GET("/:trainerId", h.GetTrainer, staff, owner)
	trainers.PUT("/:trainerId", h.UpdateTrainer, staff, owner)
	trainers.DELETE("/:trainerId", h.DeleteTrainer, staff, owner)
	trainers.GET("/:trainerId/courses", h.GetTrainerCourses, staff, owner)
	trainers.GET("/:trainerId/payments", h.GetTrainerPayments, staff, owner)

	payments := api.Group("/payments", authed)
	payments.GET("", h.GetAllPayments, admin)
	payments.GET("/:paymentId", h.GetPayment, staff)
	payments.POST("", h.CreatePayment, admin)
	payments.PUT("/:paymentId", h.UpdatePayment, admin)
	payments.DELETE("/:paymentId", h.DeletePayment, admin)
}
