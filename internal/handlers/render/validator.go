package render

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	configureValidator(validate)
}

func configureValidator(v *validator.Validate) {
	_ = v.RegisterValidation("handle", validateHandle)
	v.RegisterTagNameFunc(useJSONTagNames)
}

// Report on json tag name instead of the struct field name
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

var handleRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateHandle(fl validator.FieldLevel) bool {
	return handleRe.MatchString(fl.Field().String())
}

// messageForTag builds a user friendly message for the failed validation tag
func messageForTag(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "min":
		return fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
	case "max":
		return fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
	case "handle":
		return "Handle: letters, numbers, underscore only"
	case "datetime":
		return "Date must be YYYY-MM-DD"
	default:
		return "Invalid value"
	}
}
