package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/authz"
)

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			for _, r := range roles {
				if caller.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// TrainerAccess checks the trainer id in path parameter param against policy.
func TrainerAccess(policy authz.Policy, param string, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := CheckTrainerAccess(c, policy, c.Param(param), log); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// CheckTrainerAccess returns nil when the request's caller may act on trainerID,
// a 401 HTTP error when it may not, and a 500 when the policy itself failed.
func CheckTrainerAccess(c echo.Context, policy authz.Policy, trainerID string, log *zap.Logger) error {
	caller, _ := CallerFrom(c)
	ok, err := policy.CanAccess(c.Request().Context(), caller, trainerID)
	if err != nil {
		log.Error("authorization check failed",
			zap.String("user_id", caller.UserID),
			zap.String("trainer_id", trainerID),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !ok {
		log.Warn("authorization denied",
			zap.String("user_id", caller.UserID),
			zap.String("role", caller.Role),
			zap.String("trainer_id", trainerID))
		return echo.NewHTTPError(http.StatusUnauthorized, "can access only own trainer account")
	}
	return nil
}
