package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type fieldErrors []fieldError

func (v fieldErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// requestValidator checks the shape of request bodies. Business rules
// (staff xor team, status graph) stay in the service.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Struct(x any) error {
	if err := v.validate.Struct(x); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return translate(verrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) fieldErrors {
	out := make(fieldErrors, 0, len(errs))
	for _, err := range errs {
		msg := err.Error()
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", err.Field())
		case "gt":
			msg = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}
		out = append(out, fieldError{Field: err.Field(), Message: msg})
	}
	return out
}
