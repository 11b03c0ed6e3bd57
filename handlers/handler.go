package handlers

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/authz"
	mw "github.com/padraicbc/courseapi/middleware"
	"github.com/padraicbc/courseapi/service"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	courses  *service.CourseService
	trainers *service.TrainerService
	payments *service.PaymentService
	auth     *service.AuthService
	admins   *service.AdminService
	policy   authz.Policy
	tokens   mw.TokenConfig
	log      *zap.Logger
}

// New creates a Handler whose services share db. Access tokens are issued with tokens;
// refresh tokens and account email follow auth.
func New(db *bun.DB, tokens mw.TokenConfig, auth service.AuthConfig, log *zap.Logger) *Handler {
	trainers := service.NewTrainerService(db, log)
	return &Handler{
		courses:  service.NewCourseService(db, log),
		trainers: trainers,
		payments: service.NewPaymentService(db, log),
		auth:     service.NewAuthService(db, log, auth),
		admins:   service.NewAdminService(db, log),
		policy:   authz.NewOwnershipPolicy(trainers),
		tokens:   tokens,
		log:      log.Named("http"),
	}
}
