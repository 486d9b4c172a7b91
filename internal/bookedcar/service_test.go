package bookedcar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
)

// memRepository keeps rows in memory; WithTx restores them when fn fails.
// calls records the order of lock and write operations.
type memRepository struct {
	nextID   int64
	rows     map[int64]BookedCar
	bookings map[int64]availability.DateRange
	cars     map[int64]bool
	calls    []string
}

func (m *memRepository) WithTx(_ context.Context, fn func(tx Repository) error) error {
	saved := make(map[int64]BookedCar, len(m.rows))
	for k, v := range m.rows {
		saved[k] = v
	}
	if err := fn(m); err != nil {
		m.rows = saved
		return err
	}
	return nil
}

func (m *memRepository) Create(_ context.Context, bc *BookedCar) error {
	m.calls = append(m.calls, "Create")
	for _, row := range m.rows {
		if row.BookingID == bc.BookingID && row.CarID == bc.CarID {
			return ErrDuplicate
		}
	}
	m.nextID++
	bc.ID = m.nextID
	m.rows[bc.ID] = *bc
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id int64) (*BookedCar, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *memRepository) List(_ context.Context, _ Filter) ([]*BookedCar, int, error) {
	var out []*BookedCar
	for _, row := range m.rows {
		r := row
		out = append(out, &r)
	}
	return out, len(out), nil
}

func (m *memRepository) Update(_ context.Context, bc *BookedCar) error {
	m.calls = append(m.calls, "Update")
	if _, ok := m.rows[bc.ID]; !ok {
		return ErrNotFound
	}
	m.rows[bc.ID] = *bc
	return nil
}

func (m *memRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepository) LockBooking(_ context.Context, bookingID int64) (availability.DateRange, error) {
	m.calls = append(m.calls, "LockBooking")
	dr, ok := m.bookings[bookingID]
	if !ok {
		return availability.DateRange{}, ErrBookingNotFound
	}
	return dr, nil
}

func (m *memRepository) LockCars(_ context.Context, carIDs []int64) ([]int64, error) {
	m.calls = append(m.calls, "LockCars")
	var found []int64
	for _, id := range carIDs {
		if m.cars[id] {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *memRepository) IsCarAvailable(_ context.Context, carID int64, dr availability.DateRange, excludeBookingID int64) (bool, error) {
	m.calls = append(m.calls, "IsCarAvailable")
	for _, row := range m.rows {
		if row.CarID != carID || row.BookingID == excludeBookingID {
			continue
		}
		if availability.Overlaps(m.bookings[row.BookingID], dr) {
			return false, nil
		}
	}
	return true, nil
}

func newTestRepo(t *testing.T) *memRepository {
	mustRange := func(in, out string) availability.DateRange {
		dr, err := availability.ParseRange(in, out)
		require.NoError(t, err)
		return dr
	}
	return &memRepository{
		rows: make(map[int64]BookedCar),
		bookings: map[int64]availability.DateRange{
			1: mustRange("2025-07-01", "2025-07-05"),
			2: mustRange("2025-07-04", "2025-07-08"),
			3: mustRange("2025-08-01", "2025-08-03"),
		},
		cars: map[int64]bool{10: true, 11: true},
	}
}

func TestCreate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	bc, err := svc.Create(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bc.ID)

	_, err = svc.Create(ctx, 1, 10)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(ctx, 2, 10)
	assert.ErrorIs(t, err, booking.ErrCarsUnavailable)

	_, err = svc.Create(ctx, 3, 10)
	assert.NoError(t, err)

	_, err = svc.Create(ctx, 9, 10)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.Create(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrCarNotFound)

	assert.Len(t, repo.rows, 2)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 3, 11)
	require.NoError(t, err)

	// Moving the row to an overlapping booking of the same car is fine: the
	// row no longer holds the old booking afterwards.
	moved, err := svc.Update(ctx, first.ID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved.BookingID)

	// Car 11 is taken by booking 3 only, which does not overlap booking 2.
	_, err = svc.Update(ctx, first.ID, 2, 11)
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.ID, 1, 11)
	require.NoError(t, err)

	_, err = svc.Update(ctx, 404, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateConflictRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 10)
	require.NoError(t, err)
	other, err := svc.Create(ctx, 2, 11)
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, 2, 10)
	var conflict *booking.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int64{10}, conflict.CarIDs)

	stored, err := svc.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(11), stored.CarID)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	bc, err := svc.Create(ctx, 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bc.ID))
	assert.ErrorIs(t, svc.Delete(ctx, bc.ID), ErrNotFound)

	_, err = svc.Create(ctx, 2, 10)
	assert.NoError(t, err)
}

func TestWritesTakeLocksFirst(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	bc, err := svc.Create(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"LockBooking", "LockCars", "IsCarAvailable", "Create"}, repo.calls)

	repo.calls = nil
	_, err = svc.Update(ctx, bc.ID, 3, 11)
	require.NoError(t, err)
	assert.Equal(t, []string{"LockBooking", "LockCars", "Update", "IsCarAvailable"}, repo.calls)

	// A missing car fails before anything is written.
	repo.calls = nil
	_, err = svc.Update(ctx, bc.ID, 3, 99)
	assert.ErrorIs(t, err, ErrCarNotFound)
	assert.NotContains(t, repo.calls, "Update")
}
