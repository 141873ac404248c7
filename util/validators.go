package util

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		registerErr = v.RegisterValidation("orgcode", func(fl validator.FieldLevel) bool {
			_, err := NormalizeOrganizationCode(fl.Field().String())
			return err == nil
		})
	})
	return registerErr
}
