package http

import (
	"math"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	UserID int64  `form:"user_id" binding:"omitempty,min=1"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=id checkin_date checkout_date created_at"`
}

// CreateBookingRequest books one or more cars for a stay. UserID defaults to
// the caller.
type CreateBookingRequest struct {
	UserID       int64   `json:"user_id" binding:"omitempty,min=1"`
	Cars         []int64 `json:"cars" binding:"required,min=1,dive,min=1"`
	CheckinDate  string  `json:"checkin_date" binding:"required"`
	CheckoutDate string  `json:"checkout_date" binding:"required"`
}

// UpdateBookingRequest replaces the booking's owner and dates. Price is
// optional and only an admin may change it.
type UpdateBookingRequest struct {
	UserID       int64    `json:"user_id" binding:"required,min=1"`
	CheckinDate  string   `json:"checkin_date" binding:"required"`
	CheckoutDate string   `json:"checkout_date" binding:"required"`
	Price        *float64 `json:"price" binding:"omitempty,min=0"`
}

func (r *UpdateBookingRequest) toDomain() (booking.UpdateRequest, error) {
	dr, err := availability.ParseRange(r.CheckinDate, r.CheckoutDate)
	if err != nil {
		return booking.UpdateRequest{}, err
	}

	req := booking.UpdateRequest{UserID: r.UserID, Range: dr}
	if r.Price != nil {
		cents := toCents(*r.Price)
		req.PriceCents = &cents
	}
	return req, nil
}

type BookingResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CheckinDate  string    `json:"checkin_date"`
	CheckoutDate string    `json:"checkout_date"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	CarIDs       []int64   `json:"car_ids,omitempty"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		CheckinDate:  b.Range.Checkin.Format(availability.DateLayout),
		CheckoutDate: b.Range.Checkout.Format(availability.DateLayout),
		Price:        float64(b.PriceCents) / 100,
		CreatedAt:    b.CreatedAt,
		CarIDs:       b.CarIDs,
	}
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
