package validators

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a validator that reports fields by their json names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate returns validator.ValidationErrors untouched so the error handler can format them.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
