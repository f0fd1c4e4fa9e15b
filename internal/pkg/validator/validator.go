package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	register(validate)

	// gin binding shares the same engine type; give it the same field names
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(engine)
	}
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	// rejects whitespace-only strings, which pass "required"
	_ = v.RegisterValidation("notblank", validators.NotBlank)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate struct fields
func Validate(v interface{}) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, _ := FromError(err)
	return errs
}

// FromError converts validator errors (including those returned by gin
// binding) into field messages. ok is false for any other error.
func FromError(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "eqfield":
		return "Passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
