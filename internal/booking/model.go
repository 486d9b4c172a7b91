package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "unauthorized: user is not the owner of the booking or an admin")
	ErrPriceForbidden   = apperror.New(http.StatusForbidden, "only admins can change the booking price")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "user not found")
	ErrCarNotFound      = apperror.New(http.StatusNotFound, "car not found")
	ErrNoCars           = apperror.New(http.StatusBadRequest, "at least one car is required")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price cannot be negative")
	ErrCarsUnavailable  = apperror.New(http.StatusBadRequest, "some cars are not available for the selected dates")
)

type Booking struct {
	ID         int64
	UserID     int64
	Range      availability.DateRange
	PriceCents int64
	CreatedAt  time.Time

	// CarIDs is only filled on detail reads.
	CarIDs []int64
}

type Filter struct {
	UserID int64

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ConflictError lists the requested cars that already have an overlapping
// booking. It unwraps to ErrCarsUnavailable carrying the ids in the body.
type ConflictError struct {
	CarIDs []int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cars not available: %v", e.CarIDs)
}

func (e *ConflictError) Unwrap() error {
	return ErrCarsUnavailable.WithDetails(map[string]any{"unavailable_cars": e.CarIDs})
}
