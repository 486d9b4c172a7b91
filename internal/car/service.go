package car

import (
	"context"
	"strings"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
)

type Service interface {
	Create(ctx context.Context, c *Car) error
	GetByID(ctx context.Context, id int64) (*Car, error)
	List(ctx context.Context, filter Filter) ([]*Car, int, error)
	Update(ctx context.Context, c *Car) error
	Delete(ctx context.Context, id int64) error

	// ListAvailable returns every car with no booking overlapping r.
	ListAvailable(ctx context.Context, r availability.DateRange) ([]*Car, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, c *Car) error {
	normalize(c)
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, c *Car) error {
	normalize(c)
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListAvailable(ctx context.Context, r availability.DateRange) ([]*Car, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListAvailable(ctx, r)
}

func normalize(c *Car) {
	c.Brand = strings.TrimSpace(c.Brand)
	c.Model = strings.TrimSpace(c.Model)
}
