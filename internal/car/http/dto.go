package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/car-rental-backend/internal/car"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

// EngineTypeTag is the binding tag that accepts only known engine types.
const EngineTypeTag = "enginetype"

// ValidateEngineType is the validator.Func behind EngineTypeTag.
func ValidateEngineType(fl validator.FieldLevel) bool {
	return car.EngineType(fl.Field().String()).Valid()
}

type ListCarsRequest struct {
	request.ListParams
	Brand      string `form:"brand"`
	EngineType string `form:"engine_type" binding:"omitempty,enginetype"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=id brand model engine_capacity created_at"`
}

// AvailableCarsRequest holds the stay to check, as YYYY-MM-DD dates.
type AvailableCarsRequest struct {
	CheckinDate  string `form:"checkin_date" binding:"required"`
	CheckoutDate string `form:"checkout_date" binding:"required"`
}

type CarRequest struct {
	Brand          string  `json:"brand" binding:"required"`
	Model          string  `json:"model" binding:"required"`
	EngineCapacity float64 `json:"engine_capacity" binding:"required"`
	EngineType     string  `json:"engine_type" binding:"required,enginetype"`
}

func (r *CarRequest) toDomain(id int64) *car.Car {
	return &car.Car{
		ID:             id,
		Brand:          r.Brand,
		Model:          r.Model,
		EngineCapacity: r.EngineCapacity,
		EngineType:     car.EngineType(r.EngineType),
	}
}

type CarResponse struct {
	ID             int64     `json:"id"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	EngineCapacity float64   `json:"engine_capacity"`
	EngineType     string    `json:"engine_type"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewCarResponse(c *car.Car) CarResponse {
	return CarResponse{
		ID:             c.ID,
		Brand:          c.Brand,
		Model:          c.Model,
		EngineCapacity: c.EngineCapacity,
		EngineType:     string(c.EngineType),
		CreatedAt:      c.CreatedAt,
	}
}
