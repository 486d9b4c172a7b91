package car

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
)

type stubRepository struct {
	created   []*Car
	available []*Car
	gotRange  availability.DateRange
}

func (s *stubRepository) Create(_ context.Context, c *Car) error {
	c.ID = int64(len(s.created) + 1)
	s.created = append(s.created, c)
	return nil
}

func (s *stubRepository) GetByID(_ context.Context, id int64) (*Car, error) {
	for _, c := range s.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubRepository) List(_ context.Context, _ Filter) ([]*Car, int, error) {
	return s.created, len(s.created), nil
}

func (s *stubRepository) Update(_ context.Context, c *Car) error {
	for i, existing := range s.created {
		if existing.ID == c.ID {
			s.created[i] = c
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubRepository) Delete(_ context.Context, _ int64) error { return nil }

func (s *stubRepository) ListAvailable(_ context.Context, r availability.DateRange) ([]*Car, error) {
	s.gotRange = r
	return s.available, nil
}

func TestServiceCreate(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	c := &Car{Brand: " Toyota ", Model: "Yaris", EngineCapacity: 1.0, EngineType: EngineHybrid}
	require.NoError(t, svc.Create(ctx, c))
	assert.Equal(t, "Toyota", c.Brand)
	assert.Len(t, repo.created, 1)

	err := svc.Create(ctx, &Car{Brand: "Fiat", Model: "500", EngineCapacity: 0.5, EngineType: EnginePetrol})
	assert.ErrorIs(t, err, ErrInvalidEngineCapacity)
	assert.Len(t, repo.created, 1, "invalid car must not be stored")
}

func TestServiceUpdateMissing(t *testing.T) {
	svc := NewService(&stubRepository{})

	err := svc.Update(context.Background(), &Car{ID: 7, Brand: "VW", Model: "Golf", EngineCapacity: 2, EngineType: EngineDiesel})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceListAvailable(t *testing.T) {
	repo := &stubRepository{available: []*Car{{ID: 3}}}
	svc := NewService(repo)
	ctx := context.Background()

	in := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	out := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)

	cars, err := svc.ListAvailable(ctx, availability.DateRange{Checkin: in, Checkout: out})
	require.NoError(t, err)
	assert.Len(t, cars, 1)
	assert.Equal(t, in, repo.gotRange.Checkin)

	_, err = svc.ListAvailable(ctx, availability.DateRange{Checkin: out, Checkout: in})
	assert.ErrorIs(t, err, availability.ErrInvalidRange)
}
