package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/service"
)

type pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

type response struct {
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
	Pagination *pagination `json:"pagination,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, response{Message: message, Data: data})
}

func respondPage[T, D any](c echo.Context, message string, page *service.Page[T], mapItems func([]T) []D) error {
	return c.JSON(http.StatusOK, response{
		Message: message,
		Data:    mapItems(page.Items),
		Pagination: &pagination{
			CurrentPage: page.CurrentPage,
			PageSize:    page.PageSize,
			TotalCount:  page.TotalCount,
			TotalPages:  page.TotalPages,
		},
	})
}

// bind decodes the request into req and runs the registered validator on it.
// Decoding failures come back as a *service.ValidationError like rule failures do.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &service.ValidationError{Messages: []string{bodyMessage(err)}}
	}
	return c.Validate(req)
}

func bodyMessage(err error) string {
	var de *DateError
	var te *json.UnmarshalTypeError
	switch {
	case errors.As(err, &de):
		return de.Error()
	case errors.As(err, &te) && te.Field != "":
		return fmt.Sprintf("%s must be a %s.", te.Field, jsonKind(te.Type.Kind()))
	}
	return "The request body is not valid JSON."
}

// queryMessages lists one message per query parameter the binder rejected.
func queryMessages(errs []error) []string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		var be *echo.BindingError
		if errors.As(err, &be) {
			msgs = append(msgs, fmt.Sprintf("%s has an invalid value %q.", be.Field, strings.Join(be.Values, ",")))
			continue
		}
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return "string"
}

// fail maps service errors onto HTTP errors. what names the entity for not-found messages.
func (h *Handler) fail(c echo.Context, err error, what string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"errors":  verr.Messages,
		})
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, strings.TrimPrefix(err.Error(), service.ErrConflict.Error()+": "))
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	h.log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
