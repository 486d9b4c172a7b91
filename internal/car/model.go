package car

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "car not found")
	ErrBrandRequired         = apperror.New(http.StatusBadRequest, "brand is required")
	ErrModelRequired         = apperror.New(http.StatusBadRequest, "model is required")
	ErrInvalidEngineCapacity = apperror.New(http.StatusBadRequest, "engine capacity must be between 0.8 and 8")
	ErrInvalidEngineType     = apperror.New(http.StatusBadRequest, "engine type must be one of Diesel, Petrol, Hybrid")
	ErrCarInUse              = apperror.New(http.StatusConflict, "car is referenced by existing bookings")
)

const (
	MinEngineCapacity = 0.8
	MaxEngineCapacity = 8.0
)

// EngineType is the fuel kind of a car.
type EngineType string

const (
	EngineDiesel EngineType = "Diesel"
	EnginePetrol EngineType = "Petrol"
	EngineHybrid EngineType = "Hybrid"
)

// Valid reports whether t is a supported engine type.
func (t EngineType) Valid() bool {
	switch t {
	case EngineDiesel, EnginePetrol, EngineHybrid:
		return true
	}
	return false
}

type Car struct {
	ID             int64
	Brand          string
	Model          string
	EngineCapacity float64
	EngineType     EngineType
	CreatedAt      time.Time
}

// Validate checks the catalogue constraints of c.
func (c *Car) Validate() error {
	if strings.TrimSpace(c.Brand) == "" {
		return ErrBrandRequired
	}
	if strings.TrimSpace(c.Model) == "" {
		return ErrModelRequired
	}
	if err := ValidateEngineCapacity(c.EngineCapacity); err != nil {
		return err
	}
	if !c.EngineType.Valid() {
		return ErrInvalidEngineType
	}
	return nil
}

// ValidateEngineCapacity accepts capacities in [0.8, 8] litres.
func ValidateEngineCapacity(v float64) error {
	if v < MinEngineCapacity || v > MaxEngineCapacity {
		return ErrInvalidEngineCapacity
	}
	return nil
}

type Filter struct {
	Brand      string
	EngineType EngineType

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
