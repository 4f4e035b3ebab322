package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/support-desk/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput runs struct validation and converts failures into a
// field-level ValidationError, keeping bad payloads away from the
// store entirely.
func checkInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return util.NewValidationError("invalid input", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return util.NewValidationError("invalid input", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
