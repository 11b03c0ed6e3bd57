package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/courseapi/middleware"
)

// GetPayment returns one payment. Trainers only see their own.
func (h *Handler) GetPayment(c echo.Context) error {
	payment, err := h.payments.GetByID(c.Request().Context(), c.Param("paymentId"))
	if err != nil {
		return h.fail(c, err, "payment")
	}
	if err := mw.CheckTrainerAccess(c, h.policy, payment.TrainerID, h.log); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Payment retrieved successfully", toPaymentData(payment))
}

// GetAllPayments lists every payment by payment date. Admin only.
func (h *Handler) GetAllPayments(c echo.Context) error {
	payments, err := h.payments.GetAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "payment")
	}
	return respond(c, http.StatusOK, "Payments retrieved successfully", toPaymentList(payments))
}

// CreatePayment records a payment. Admin only.
func (h *Handler) CreatePayment(c echo.Context) error {
	var req paymentRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "payment")
	}

	payment, err := h.payments.Create(c.Request().Context(), req.input())
	if err != nil {
		return h.fail(c, err, "payment")
	}
	return respond(c, http.StatusCreated, "Payment created successfully", toPaymentData(payment))
}

// UpdatePayment replaces a payment. Admin only.
func (h *Handler) UpdatePayment(c echo.Context) error {
	paymentID := c.Param("paymentId")
	var req paymentRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "payment")
	}
	if req.PaymentID != paymentID {
		return echo.NewHTTPError(http.StatusBadRequest, "payment id mismatch")
	}

	payment, err := h.payments.Update(c.Request().Context(), paymentID, req.input())
	if err != nil {
		return h.fail(c, err, "payment")
	}
	return respond(c, http.StatusOK, "Payment updated successfully", toPaymentData(payment))
}

// DeletePayment removes a payment. Admin only.
func (h *Handler) DeletePayment(c echo.Context) error {
	deleted, err := h.payments.Delete(c.Request().Context(), c.Param("paymentId"))
	if err != nil {
		return h.fail(c, err, "payment")
	}
	if !deleted {
		return respond(c, http.StatusOK, "Payment not found, nothing deleted", false)
	}
	return respond(c, http.StatusOK, "Payment deleted successfully", true)
}
