package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/db"
)

type Repository interface {
	// WithTx runs fn inside one transaction. The Repository handed to fn is
	// bound to that transaction; returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, booking *Booking) error
	AttachCars(ctx context.Context, bookingID int64, carIDs []int64) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id int64) error

	// LockBooking locks the booking row until the transaction ends, or returns
	// ErrNotFound.
	LockBooking(ctx context.Context, id int64) error

	// LockCars locks the given car rows until the transaction ends and returns
	// the ids that exist, in ascending order.
	LockCars(ctx context.Context, carIDs []int64) ([]int64, error)

	// IsCarAvailable checks if the car has no booking overlapping r.
	// excludeBookingID is used during updates to ignore the booking itself.
	IsCarAvailable(ctx context.Context, carID int64, r availability.DateRange, excludeBookingID int64) (bool, error)
}

type pgxRepository struct {
	db db.DBTX
}

func NewPgxRepository(q db.DBTX) Repository {
	return &pgxRepository{db: q}
}

func (r *pgxRepository) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&pgxRepository{db: tx})
	})
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("user_id", "checkin_date", "checkout_date", "price_cents").
		Values(b.UserID, b.Range.Checkin, b.Range.Checkout, b.PriceCents).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) AttachCars(ctx context.Context, bookingID int64, carIDs []int64) error {
	if len(carIDs) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	insert := psql.Insert("public.booked_cars").Columns("booking_id", "car_id")
	for _, carID := range carIDs {
		insert = insert.Values(bookingID, carID)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build attach cars query failed: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("attach cars failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.user_id", "b.checkin_date", "b.checkout_date", "b.price_cents", "b.created_at",
		"COALESCE(array_agg(bc.car_id ORDER BY bc.car_id) FILTER (WHERE bc.car_id IS NOT NULL), '{}')",
	).
		From("public.bookings b").
		LeftJoin("public.booked_cars bc ON bc.booking_id = b.id").
		Where(squirrel.Eq{"b.id": id}).
		GroupBy("b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.UserID, &b.Range.Checkin, &b.Range.Checkout, &b.PriceCents, &b.CreatedAt, &b.CarIDs,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.user_id", "b.checkin_date", "b.checkout_date", "b.price_cents", "b.created_at",
		"count(*) OVER() AS total_count",
	).
		From("public.bookings b")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}

	// Sorting
	orderBy := "b.id"
	if filter.SortBy != "" {
		orderBy = "b." + filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Range.Checkin, &b.Range.Checkout, &b.PriceCents, &b.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("user_id", b.UserID).
		Set("checkin_date", b.Range.Checkin).
		Set("checkout_date", b.Range.Checkout).
		Set("price_cents", b.PriceCents).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the booking's car associations and then the booking itself.
// Callers run it inside WithTx so both deletes commit together.
func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("public.booked_cars").
		Where(squirrel.Eq{"booking_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booked cars query failed: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete booked cars failed: %w", err)
	}

	query, args, err = psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) LockBooking(ctx context.Context, id int64) error {
	_, found, err := availability.LockBooking(ctx, r.db, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) LockCars(ctx context.Context, carIDs []int64) ([]int64, error) {
	return availability.LockCars(ctx, r.db, carIDs)
}

func (r *pgxRepository) IsCarAvailable(ctx context.Context, carID int64, dr availability.DateRange, excludeBookingID int64) (bool, error) {
	return availability.IsCarAvailable(ctx, r.db, carID, dr, excludeBookingID)
}
