package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/car-rental-backend/internal/db"
)

// Overlaps reports whether an existing booking range conflicts with a requested
// one. Both bounds are inclusive, so a booking that ends on the day another
// starts is a conflict.
func Overlaps(existing, requested DateRange) bool {
	within := func(t time.Time) bool {
		return !t.Before(requested.Checkin) && !t.After(requested.Checkout)
	}
	if within(existing.Checkin) || within(existing.Checkout) {
		return true
	}
	return !existing.Checkin.After(requested.Checkin) && !existing.Checkout.Before(requested.Checkout)
}

// OverlapCond is Overlaps rendered as SQL against the checkin_date and
// checkout_date columns of the bookings table aliased as alias.
func OverlapCond(alias string, r DateRange) squirrel.Sqlizer {
	checkin := alias + ".checkin_date"
	checkout := alias + ".checkout_date"
	return squirrel.Or{
		squirrel.And{squirrel.GtOrEq{checkin: r.Checkin}, squirrel.LtOrEq{checkin: r.Checkout}},
		squirrel.And{squirrel.GtOrEq{checkout: r.Checkin}, squirrel.LtOrEq{checkout: r.Checkout}},
		squirrel.And{squirrel.LtOrEq{checkin: r.Checkin}, squirrel.GtOrEq{checkout: r.Checkout}},
	}
}

// conflictQuery selects any booked_cars row of carID whose booking overlaps r.
// excludeBookingID > 0 ignores that booking's own rows (used on updates).
func conflictQuery(carID int64, r DateRange, excludeBookingID int64) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	q := psql.Select("1").
		From("public.booked_cars bc").
		Join("public.bookings b ON b.id = bc.booking_id").
		Where(squirrel.Eq{"bc.car_id": carID}).
		Where(OverlapCond("b", r))

	if excludeBookingID > 0 {
		q = q.Where(squirrel.NotEq{"b.id": excludeBookingID})
	}
	return q
}

// IsCarAvailable returns false if carID already has a booking overlapping r.
func IsCarAvailable(ctx context.Context, q db.DBTX, carID int64, r DateRange, excludeBookingID int64) (bool, error) {
	sub, args, err := conflictQuery(carID, r, excludeBookingID).ToSql()
	if err != nil {
		return false, fmt.Errorf("build availability query failed: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check car availability failed: %w", err)
	}
	return !exists, nil
}

// LockCars takes row locks on the given cars in id order and returns the ids
// that exist. Callers hold the locks until their transaction ends, which
// serializes concurrent reservations of the same car.
func LockCars(ctx context.Context, q db.DBTX, carIDs []int64) ([]int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id").
		From("public.cars").
		Where("id = ANY(?)", carIDs).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock cars query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lock cars failed: %w", err)
	}
	defer rows.Close()

	found := make([]int64, 0, len(carIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan locked car failed: %w", err)
		}
		found = append(found, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock cars failed: %w", err)
	}
	return found, nil
}

func lockBookingQuery(bookingID int64) squirrel.SelectBuilder {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("checkin_date", "checkout_date").
		From("public.bookings").
		Where(squirrel.Eq{"id": bookingID}).
		Suffix("FOR UPDATE")
}

// LockBooking locks the booking row until the transaction ends and returns its
// dates. found is false when the booking does not exist. Writers that change a
// booking's dates or its set of cars take this lock before the car locks.
func LockBooking(ctx context.Context, q db.DBTX, bookingID int64) (dr DateRange, found bool, err error) {
	query, args, err := lockBookingQuery(bookingID).ToSql()
	if err != nil {
		return DateRange{}, false, fmt.Errorf("build lock booking query failed: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&dr.Checkin, &dr.Checkout); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DateRange{}, false, nil
		}
		return DateRange{}, false, fmt.Errorf("lock booking failed: %w", err)
	}
	return dr, true, nil
}
