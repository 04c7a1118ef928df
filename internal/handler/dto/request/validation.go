package request

import (
	"sync"

	"coach-booking/internal/domain/coach"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("seatcount", func(fl validator.FieldLevel) bool {
			return coach.IsValidCount(int(fl.Field().Int()))
		})
	})
}
