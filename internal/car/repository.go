package car

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/car-rental-backend/internal/availability"
)

type Repository interface {
	Create(ctx context.Context, c *Car) error
	GetByID(ctx context.Context, id int64) (*Car, error)
	List(ctx context.Context, filter Filter) ([]*Car, int, error)
	Update(ctx context.Context, c *Car) error
	Delete(ctx context.Context, id int64) error
	ListAvailable(ctx context.Context, r availability.DateRange) ([]*Car, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, c *Car) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.cars").
		Columns("brand", "model", "engine_capacity", "engine_type").
		Values(c.Brand, c.Model, c.EngineCapacity, c.EngineType).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create car query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("create car failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Car, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("c.id", "c.brand", "c.model", "c.engine_capacity", "c.engine_type", "c.created_at").
		From("public.cars c").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get car query failed: %w", err)
	}

	var c Car
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Brand, &c.Model, &c.EngineCapacity, &c.EngineType, &c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get car failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"c.id", "c.brand", "c.model", "c.engine_capacity", "c.engine_type", "c.created_at",
		"count(*) OVER() AS total_count",
	).From("public.cars c")

	if filter.Brand != "" {
		query = query.Where(squirrel.ILike{"c.brand": "%" + filter.Brand + "%"})
	}
	if filter.EngineType != "" {
		query = query.Where(squirrel.Eq{"c.engine_type": filter.EngineType})
	}

	// Sorting
	orderBy := "c.id"
	if filter.SortBy != "" {
		orderBy = "c." + filter.SortBy
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
		return nil, 0, fmt.Errorf("build list cars query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cars failed: %w", err)
	}
	defer rows.Close()

	var cars []*Car
	var total int
	for rows.Next() {
		var c Car
		if err := rows.Scan(
			&c.ID, &c.Brand, &c.Model, &c.EngineCapacity, &c.EngineType, &c.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan car failed: %w", err)
		}
		cars = append(cars, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list cars failed: %w", err)
	}

	return cars, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Car) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.cars").
		Set("brand", c.Brand).
		Set("model", c.Model).
		Set("engine_capacity", c.EngineCapacity).
		Set("engine_type", c.EngineType).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update car query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update car failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete car query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			return ErrCarInUse
		}
		return fmt.Errorf("delete car failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// availableQuery keeps the cars that find no overlapping booking to join with.
func availableQuery(dr availability.DateRange) (string, []any, error) {
	cond, condArgs, err := availability.OverlapCond("b", dr).ToSql()
	if err != nil {
		return "", nil, err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select("c.id", "c.brand", "c.model", "c.engine_capacity", "c.engine_type", "c.created_at").
		From("public.cars c").
		LeftJoin(
			"(public.booked_cars bc JOIN public.bookings b ON b.id = bc.booking_id AND "+cond+") ON bc.car_id = c.id",
			condArgs...,
		).
		Where(squirrel.Eq{"bc.id": nil}).
		OrderBy("c.id").
		ToSql()
}

func (r *pgxRepository) ListAvailable(ctx context.Context, dr availability.DateRange) ([]*Car, error) {
	query, args, err := availableQuery(dr)
	if err != nil {
		return nil, fmt.Errorf("build available cars query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list available cars failed: %w", err)
	}
	defer rows.Close()

	cars := make([]*Car, 0)
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.EngineCapacity, &c.EngineType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan car failed: %w", err)
		}
		cars = append(cars, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available cars failed: %w", err)
	}
	return cars, nil
}
