package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetTrainer returns a trainer profile. Ownership is checked by middleware.
func (h *Handler) GetTrainer(c echo.Context) error {
	trainer, err := h.trainers.GetByID(c.Request().Context(), c.Param("trainerId"))
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusOK, "Trainer retrieved successfully", toTrainerData(trainer))
}

// GetAllTrainers lists every trainer. Admin only.
func (h *Handler) GetAllTrainers(c echo.Context) error {
	trainers, err := h.trainers.GetAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusOK, "Trainers retrieved successfully", toTrainerList(trainers))
}

// UpdateTrainer replaces the trainer's bio.
func (h *Handler) UpdateTrainer(c echo.Context) error {
	trainerID := c.Param("trainerId")
	var req trainerRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "trainer")
	}
	if req.TrainerID != trainerID {
		return echo.NewHTTPError(http.StatusBadRequest, "trainer id mismatch")
	}

	trainer, err := h.trainers.Update(c.Request().Context(), trainerID, req.Bio)
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusOK, "Trainer updated successfully", toTrainerData(trainer))
}

// DeleteTrainer removes the trainer profile. Its courses and payments are left in place.
func (h *Handler) DeleteTrainer(c echo.Context) error {
	deleted, err := h.trainers.Delete(c.Request().Context(), c.Param("trainerId"))
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	if !deleted {
		return respond(c, http.StatusOK, "Trainer not found, nothing deleted", false)
	}
	return respond(c, http.StatusOK, "Trainer deleted successfully", true)
}

// GetTrainerCourses lists the trainer's courses by start date.
func (h *Handler) GetTrainerCourses(c echo.Context) error {
	courses, err := h.trainers.CoursesFor(c.Request().Context(), c.Param("trainerId"))
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusOK, "Courses retrieved successfully", toCourseList(courses))
}

// GetTrainerPayments lists the trainer's payments by payment date.
func (h *Handler) GetTrainerPayments(c echo.Context) error {
	payments, err := h.trainers.PaymentsFor(c.Request().Context(), c.Param("trainerId"))
	if err != nil {
		return h.fail(c, err, "trainer")
	}
	return respond(c, http.StatusOK, "Payments retrieved successfully", toPaymentList(payments))
}
