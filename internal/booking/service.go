package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
)

type CreateRequest struct {
	UserID int64
	CarIDs []int64
	Range  availability.DateRange
}

// UpdateRequest replaces owner and dates of a booking. A nil PriceCents keeps
// the current price.
type UpdateRequest struct {
	UserID     int64
	Range      availability.DateRange
	PriceCents *int64
}

type Service interface {
	Create(ctx context.Context, identity auth.Identity, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, identity auth.Identity, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListByUser(ctx context.Context, identity auth.Identity, userID int64, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, identity auth.Identity, id int64, req UpdateRequest) (*Booking, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error
}

// UserGetter is the part of user.Service the booking flow needs.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type service struct {
	repo    Repository
	users   UserGetter
	pricing PricingStrategy
	log     *zap.Logger
}

func NewService(repo Repository, users UserGetter, pricing PricingStrategy, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:    repo,
		users:   users,
		pricing: pricing,
		log:     log,
	}
}

func (s *service) Create(ctx context.Context, identity auth.Identity, req CreateRequest) (*Booking, error) {
	// 1. Only the user themselves or an admin may book on their behalf
	if !auth.Authorize(identity, req.UserID) {
		return nil, ErrPermissionDenied
	}

	// 2. Validate input
	carIDs := dedupe(req.CarIDs)
	if len(carIDs) == 0 {
		return nil, ErrNoCars
	}
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}

	// 3. Validate the owning user exists
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	price, err := s.pricing.Calculate(PricingParams{Range: req.Range, CarIDs: carIDs})
	if err != nil {
		return nil, fmt.Errorf("calculate price failed: %w", err)
	}

	b := &Booking{
		UserID:     req.UserID,
		Range:      req.Range,
		PriceCents: price,
	}

	// 4. Check and write under the same car locks
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if err := reserve(ctx, tx, carIDs, req.Range, 0); err != nil {
			return err
		}
		if err := tx.Create(ctx, b); err != nil {
			return err
		}
		return tx.AttachCars(ctx, b.ID, carIDs)
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.log.Info("booking rejected: cars unavailable",
				zap.Int64("user_id", req.UserID),
				zap.Int64s("car_ids", conflict.CarIDs),
				zap.Stringer("range", req.Range),
			)
		}
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("user_id", b.UserID),
		zap.Int64s("car_ids", carIDs),
		zap.Stringer("range", b.Range),
	)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, identity auth.Identity, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Authorize(identity, b.UserID) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListByUser(ctx context.Context, identity auth.Identity, userID int64, filter Filter) ([]*Booking, int, error) {
	if !auth.Authorize(identity, userID) {
		return nil, 0, ErrPermissionDenied
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}

	filter.UserID = userID
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, identity auth.Identity, id int64, req UpdateRequest) (*Booking, error) {
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	if req.PriceCents != nil && *req.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}

	var updated *Booking
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		// Hold the booking row so its car set cannot change before the recheck
		if err := tx.LockBooking(ctx, id); err != nil {
			return err
		}
		b, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		// Same ownership rule as create, for both the current and the new owner
		if !auth.Authorize(identity, b.UserID) || !auth.Authorize(identity, req.UserID) {
			return ErrPermissionDenied
		}
		if req.PriceCents != nil && *req.PriceCents != b.PriceCents && !identity.IsAdmin() {
			return ErrPriceForbidden
		}
		if req.UserID != b.UserID {
			if err := s.ensureUser(ctx, req.UserID); err != nil {
				return err
			}
		}

		if err := reserve(ctx, tx, b.CarIDs, req.Range, b.ID); err != nil {
			return err
		}

		b.UserID = req.UserID
		b.Range = req.Range
		if req.PriceCents != nil {
			b.PriceCents = *req.PriceCents
		}
		if err := tx.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking updated",
		zap.Int64("booking_id", updated.ID),
		zap.Int64("user_id", updated.UserID),
		zap.Stringer("range", updated.Range),
	)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.LockBooking(ctx, id); err != nil {
			return err
		}
		b, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !auth.Authorize(identity, b.UserID) {
			return ErrPermissionDenied
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("booking deleted", zap.Int64("booking_id", id))
	return nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user failed: %w", err)
	}
	return nil
}

// reserve locks carIDs and checks each of them against r. It must run inside
// a transaction. All unavailable cars are reported together, in the order
// they were requested.
func reserve(ctx context.Context, tx Repository, carIDs []int64, r availability.DateRange, excludeBookingID int64) error {
	if len(carIDs) == 0 {
		return nil
	}

	locked, err := tx.LockCars(ctx, carIDs)
	if err != nil {
		return err
	}
	if len(locked) != len(carIDs) {
		return ErrCarNotFound
	}

	var unavailable []int64
	for _, carID := range carIDs {
		ok, err := tx.IsCarAvailable(ctx, carID, r, excludeBookingID)
		if err != nil {
			return err
		}
		if !ok {
			unavailable = append(unavailable, carID)
		}
	}
	if len(unavailable) > 0 {
		return &ConflictError{CarIDs: unavailable}
	}
	return nil
}

// dedupe drops repeated ids, keeping the first occurrence of each.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
