// file: internals/helpers/validation.go
package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateStruct runs the shared validator instance over a request DTO.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// JsonValidatorError renders validator.v10 errors in the standard
// field-errors envelope; anything else becomes a plain 400.
func JsonValidatorError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := strings.ToLower(fe.Field())
		fields[key] = append(fields[key], fe.Tag())
	}
	return JsonValidationError(c, fields)
}
