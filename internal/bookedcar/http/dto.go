package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/bookedcar"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

type ListBookedCarsRequest struct {
	request.ListParams
	BookingID int64 `form:"booking_id" binding:"omitempty,min=1"`
	CarID     int64 `form:"car_id" binding:"omitempty,min=1"`
}

type BookedCarRequest struct {
	BookingID int64 `json:"booking_id" binding:"required,min=1"`
	CarID     int64 `json:"car_id" binding:"required,min=1"`
}

type BookedCarResponse struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	CarID     int64     `json:"car_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookedCarResponse(bc *bookedcar.BookedCar) BookedCarResponse {
	return BookedCarResponse{
		ID:        bc.ID,
		BookingID: bc.BookingID,
		CarID:     bc.CarID,
		CreatedAt: bc.CreatedAt,
	}
}
