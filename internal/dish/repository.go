package dish

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDishNotFound = errors.New("dish not found")
	ErrDishInUse    = errors.New("dish is referenced by existing order items")
)

type Repository interface {
	List(ctx context.Context) ([]Dish, error)
	GetByID(ctx context.Context, id int64) (*Dish, error)
	Create(ctx context.Context, d *Dish) (int64, error)
	Update(ctx context.Context, d *Dish) error
	Delete(ctx context.Context, id int64) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context) ([]Dish, error) {
	query := `
		SELECT id, name, price, category
		FROM dishes
		ORDER BY category, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]Dish, 0)
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.Category); err != nil {
			return nil, fmt.Errorf("repository: failed to scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating dishes: %w", err)
	}

	return dishes, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Dish, error) {
	query := `
		SELECT id, name, price, category
		FROM dishes
		WHERE id = $1
	`

	var d Dish
	err := r.db.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Price, &d.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("repository: failed to select dish by id %d: %w", id, err)
	}

	return &d, nil
}

func (r *postgresRepository) Create(ctx context.Context, d *Dish) (int64, error) {
	query := `
		INSERT INTO dishes (name, price, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, d.Name, d.Price, string(d.Category)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert dish: %w", err)
	}
	d.ID = id

	return id, nil
}

func (r *postgresRepository) Update(ctx context.Context, d *Dish) error {
	query := `
		UPDATE dishes
		SET name = $1, price = $2, category = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, d.Name, d.Price, string(d.Category), d.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update dish %d: %w", d.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM dishes WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrDishInUse
		}
		return fmt.Errorf("repository: failed to delete dish %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}
