package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo.Echo.Validator.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt reads at most 72 bytes; max= would count runes.
	_ = v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return &RequestValidator{v: v}
}

const maxPasswordBytes = 72

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// fieldError is one entry of a 422 response.
type fieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// bindValid decodes the request body into dst and validates it.
func bindValid(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// unprocessable answers 422 describing why the body was rejected.
func unprocessable(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{Field: fe.Field(), Msg: describe(fe)})
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": out})
	}
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": "invalid request body"})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "pwbytes":
		return fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	case "email":
		return "must be a valid email address"
	}
	return "invalid value"
}
