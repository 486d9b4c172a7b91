package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	carHttp "github.com/nekogravitycat/car-rental-backend/internal/car/http"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator engine.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation(carHttp.EngineTypeTag, carHttp.ValidateEngineType)
	})
	return err
}
