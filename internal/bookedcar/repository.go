package bookedcar

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/db"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, bc *BookedCar) error
	GetByID(ctx context.Context, id int64) (*BookedCar, error)
	List(ctx context.Context, filter Filter) ([]*BookedCar, int, error)
	Update(ctx context.Context, bc *BookedCar) error
	Delete(ctx context.Context, id int64) error

	// LockBooking locks the booking row until the transaction ends and returns
	// its dates, or ErrBookingNotFound.
	LockBooking(ctx context.Context, bookingID int64) (availability.DateRange, error)
	LockCars(ctx context.Context, carIDs []int64) ([]int64, error)
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

func (r *pgxRepository) Create(ctx context.Context, bc *BookedCar) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.booked_cars").
		Columns("booking_id", "car_id").
		Values(bc.BookingID, bc.CarID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booked car query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&bc.ID, &bc.CreatedAt); err != nil {
		return mapWriteError("create booked car failed", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*BookedCar, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "booking_id", "car_id", "created_at").
		From("public.booked_cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booked car query failed: %w", err)
	}

	var bc BookedCar
	if err := r.db.QueryRow(ctx, query, args...).Scan(&bc.ID, &bc.BookingID, &bc.CarID, &bc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booked car failed: %w", err)
	}
	return &bc, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*BookedCar, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "booking_id", "car_id", "created_at", "count(*) OVER() AS total_count").
		From("public.booked_cars")

	if filter.BookingID != 0 {
		query = query.Where(squirrel.Eq{"booking_id": filter.BookingID})
	}
	if filter.CarID != 0 {
		query = query.Where(squirrel.Eq{"car_id": filter.CarID})
	}

	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("id " + orderDir)

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
		return nil, 0, fmt.Errorf("build list booked cars query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list booked cars failed: %w", err)
	}
	defer rows.Close()

	var items []*BookedCar
	var total int
	for rows.Next() {
		var bc BookedCar
		if err := rows.Scan(&bc.ID, &bc.BookingID, &bc.CarID, &bc.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booked car failed: %w", err)
		}
		items = append(items, &bc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list booked cars failed: %w", err)
	}

	return items, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, bc *BookedCar) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.booked_cars").
		Set("booking_id", bc.BookingID).
		Set("car_id", bc.CarID).
		Where(squirrel.Eq{"id": bc.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booked car query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&bc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapWriteError("update booked car failed", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.booked_cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booked car query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booked car failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) LockBooking(ctx context.Context, bookingID int64) (availability.DateRange, error) {
	dr, found, err := availability.LockBooking(ctx, r.db, bookingID)
	if err != nil {
		return availability.DateRange{}, err
	}
	if !found {
		return availability.DateRange{}, ErrBookingNotFound
	}
	return dr, nil
}

func (r *pgxRepository) LockCars(ctx context.Context, carIDs []int64) ([]int64, error) {
	return availability.LockCars(ctx, r.db, carIDs)
}

func (r *pgxRepository) IsCarAvailable(ctx context.Context, carID int64, dr availability.DateRange, excludeBookingID int64) (bool, error) {
	return availability.IsCarAvailable(ctx, r.db, carID, dr, excludeBookingID)
}

func mapWriteError(msg string, err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		switch e.Code {
		case pgerrcode.UniqueViolation:
			return ErrDuplicate
		case pgerrcode.ForeignKeyViolation:
			if e.ConstraintName == "booked_cars_car_id_fkey" {
				return ErrCarNotFound
			}
			return ErrBookingNotFound
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
