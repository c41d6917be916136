package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"backend/internal/utils"
)

// RegisterValidators hooks custom rules into gin's binding engine. Call once
// before the router mounts handlers.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return utils.ValidCPF(fl.Field().String())
		})
	}
}
