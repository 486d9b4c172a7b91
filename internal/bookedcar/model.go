// Package bookedcar manages the booking-to-car association rows directly.
// Every write re-checks the car's availability for the booking's dates.
package bookedcar

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "booked car not found")
	ErrBookingNotFound = apperror.New(http.StatusNotFound, "booking not found")
	ErrCarNotFound     = apperror.New(http.StatusNotFound, "car not found")
	ErrDuplicate       = apperror.New(http.StatusConflict, "car is already attached to this booking")
)

type BookedCar struct {
	ID        int64
	BookingID int64
	CarID     int64
	CreatedAt time.Time
}

type Filter struct {
	BookingID int64
	CarID     int64

	Page      int
	PageSize  int
	SortOrder string
}
