package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/courseapi/middleware"
	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/service"
)

// RegisterTrainer creates a trainer account and profile.
func (h *Handler) RegisterTrainer(c echo.Context) error {
	var req registerTrainerRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "trainer")
	}

	trainer, err := h.auth.RegisterTrainer(c.Request().Context(), req.input(), req.Bio)
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusCreated, "Trainer registered successfully", toTrainerData(trainer))
}

// RegisterAdmin creates an admin account and profile. Admin only.
func (h *Handler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "admin")
	}

	admin, err := h.auth.RegisterAdmin(c.Request().Context(), req.input(), req.Position)
	if err != nil {
		return h.fail(c, err, "admin")
	}
	return respond(c, http.StatusCreated, "Admin registered successfully", toAdminData(admin))
}

// Login validates credentials and returns an access token plus a refresh token.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err, "user")
	}
	return h.issue(c, session, "Login successful")
}

// RefreshToken exchanges a refresh token for a fresh token pair.
func (h *Handler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}

	session, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return h.fail(c, err, "user")
	}
	return h.issue(c, session, "Token refreshed successfully")
}

// RevokeToken drops the caller's refresh token.
func (h *Handler) RevokeToken(c echo.Context) error {
	caller, _ := mw.CallerFrom(c)
	if err := h.auth.Revoke(c.Request().Context(), caller.UserID); err != nil {
		return h.fail(c, err, "user")
	}
	return respond(c, http.StatusOK, "Token revoked successfully", true)
}

// Me returns the caller's admin or trainer profile.
func (h *Handler) Me(c echo.Context) error {
	caller, _ := mw.CallerFrom(c)
	ctx := c.Request().Context()
	if caller.IsAdmin() {
		admin, err := h.admins.GetByUserID(ctx, caller.UserID)
		if err != nil {
			return h.fail(c, err, "admin")
		}
		return respond(c, http.StatusOK, "Profile retrieved successfully", toAdminData(admin))
	}

	trainer, err := h.trainers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusOK, "Profile retrieved successfully", toTrainerData(trainer))
}

// ChangePassword replaces the caller's password.
func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "user")
	}

	caller, _ := mw.CallerFrom(c)
	if err := h.auth.ChangePassword(c.Request().Context(), caller.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return h.fail(c, err, "user")
	}
	return respond(c, http.StatusOK, "Password changed successfully", true)
}

func (h *Handler) issue(c echo.Context, s *service.Session, message string) error {
	token, expiresAt, err := mw.IssueAccessToken(h.tokens, s.User.ID, s.Role, time.Now())
	if err != nil {
		return h.fail(c, err, "user")
	}

	data := authData{
		UserID:                s.User.ID,
		Username:              s.User.Username,
		Email:                 s.User.Email,
		Role:                  s.Role,
		AccessToken:           token,
		AccessTokenExpiresAt:  expiresAt.UTC(),
		RefreshToken:          s.RefreshToken,
		RefreshTokenExpiresAt: s.RefreshExpiresAt,
	}
	switch s.Role {
	case models.RoleTrainer:
		data.TrainerID = s.ProfileID
	case models.RoleAdmin:
		data.AdminID = s.ProfileID
	}
	return respond(c, http.StatusOK, message, data)
}
