package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/service"
)

// Validator adapts go-playground/validator to echo.Validator. Failures come back as
// *service.ValidationError with one message per broken rule.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the ulid tag, json field naming and the cross-field rules.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		return models.ValidID(fl.Field().String())
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		return f.Interface().(Date).Time
	}, Date{})
	v.RegisterStructValidation(validatePriceRange, searchRequest{})
	v.RegisterStructValidation(validateCourseDates, courseRequest{})
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return &service.ValidationError{Messages: msgs}
}

func validatePriceRange(sl validator.StructLevel) {
	r := sl.Current().Interface().(searchRequest)
	if r.MinPrice != nil && r.MaxPrice != nil && *r.MaxPrice < *r.MinPrice {
		sl.ReportError(r.MaxPrice, "maxPrice", "MaxPrice", "pricerange", "minPrice")
	}
}

func validateCourseDates(sl validator.StructLevel) {
	r := sl.Current().Interface().(courseRequest)
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate.Time) {
		sl.ReportError(r.EndDate.Time, "endDate", "EndDate", "daterange", "startDate")
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "ulid":
		return fmt.Sprintf("%s must be a valid ULID.", field)
	case "max":
		if text {
			return fmt.Sprintf("%s must not exceed %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "min":
		if text {
			return fmt.Sprintf("%s must be at least %s characters long.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s.", field, fe.Param())
	case "pricerange":
		return "maxPrice must be greater than or equal to minPrice."
	case "daterange":
		return "endDate must not be before startDate."
	}
	return fmt.Sprintf("%s is invalid.", field)
}
