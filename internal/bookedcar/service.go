package bookedcar

import (
	"context"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
)

type Service interface {
	Create(ctx context.Context, bookingID, carID int64) (*BookedCar, error)
	GetByID(ctx context.Context, id int64) (*BookedCar, error)
	List(ctx context.Context, filter Filter) ([]*BookedCar, int, error)
	Update(ctx context.Context, id, bookingID, carID int64) (*BookedCar, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, bookingID, carID int64) (*BookedCar, error) {
	bc := &BookedCar{BookingID: bookingID, CarID: carID}
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		dr, err := lockPair(ctx, tx, bookingID, carID)
		if err != nil {
			return err
		}
		if err := checkFree(ctx, tx, carID, dr, bookingID); err != nil {
			return err
		}
		return tx.Create(ctx, bc)
	})
	if err != nil {
		return nil, err
	}
	return bc, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*BookedCar, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*BookedCar, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, bookingID, carID int64) (*BookedCar, error) {
	var updated *BookedCar
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		bc, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Locks come before the write so the foreign key check never has to
		// upgrade a share lock on the car.
		dr, err := lockPair(ctx, tx, bookingID, carID)
		if err != nil {
			return err
		}

		// The row being moved is excluded from the check through its new booking id.
		bc.BookingID = bookingID
		bc.CarID = carID
		if err := tx.Update(ctx, bc); err != nil {
			return err
		}
		if err := checkFree(ctx, tx, carID, dr, bookingID); err != nil {
			return err
		}
		updated = bc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// lockPair locks the booking row and then the car, the same order booking
// updates use, and returns the booking's dates.
func lockPair(ctx context.Context, tx Repository, bookingID, carID int64) (availability.DateRange, error) {
	dr, err := tx.LockBooking(ctx, bookingID)
	if err != nil {
		return availability.DateRange{}, err
	}

	locked, err := tx.LockCars(ctx, []int64{carID})
	if err != nil {
		return availability.DateRange{}, err
	}
	if len(locked) == 0 {
		return availability.DateRange{}, ErrCarNotFound
	}
	return dr, nil
}

// checkFree makes sure the car is free for dr, ignoring rows that already
// belong to bookingID.
func checkFree(ctx context.Context, tx Repository, carID int64, dr availability.DateRange, bookingID int64) error {
	ok, err := tx.IsCarAvailable(ctx, carID, dr, bookingID)
	if err != nil {
		return err
	}
	if !ok {
		return &booking.ConflictError{CarIDs: []int64{carID}}
	}
	return nil
}
