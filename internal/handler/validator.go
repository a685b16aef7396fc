package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"orbit-hr-backend/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON body into dst and checks its validate tags. The first
// failing field is returned as a ValidationError.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &usecase.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	return check(dst)
}

// check runs the validate tags of v, reporting the first failing field.
func check(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &usecase.ValidationError{Field: verrs[0].Field(), Message: describe(verrs[0])}
		}
		return err
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", fe.Field())
	case "email", "uuid", "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
