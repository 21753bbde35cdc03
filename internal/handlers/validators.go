package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// upiPattern matches local-part@provider payment identifiers, e.g.
// "alice@paywave".
var upiPattern = regexp.MustCompile(`^[a-z0-9._-]+@[a-z0-9-]+$`)

// RegisterCustomValidators wires the "upi" binding tag into Gin's
// validator engine. Must run before any request binding.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("upi", func(fl validator.FieldLevel) bool {
			return upiPattern.MatchString(fl.Field().String())
		})
	}
}
