package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the issue enum checks and makes field errors
// report the form/json name instead of the Go field name.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("issuecategory", func(fl validator.FieldLevel) bool {
		return IssueCategory(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("issuestatus", func(fl validator.FieldLevel) bool {
		return IssueStatus(fl.Field().String()).Valid()
	})
}
