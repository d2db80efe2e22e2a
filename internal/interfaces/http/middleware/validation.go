package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var postalCodeRegex = regexp.MustCompile(`^[0-9]{4,10}$`)

// SetupValidator configures the validator with custom tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRegex.MatchString(fl.Field().String())
	})
}
