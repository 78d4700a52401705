package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, o *Order) (int64, error)
	Update(ctx context.Context, o *Order) error
	FindAll(ctx context.Context) ([]Order, error)
	FindByID(ctx context.Context, id int64) (*Order, error)
	Delete(ctx context.Context, id int64) error
	DeleteCancelledOlderThan(ctx context.Context, days int) (int64, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Create inserts the order header and all of its items in one transaction.
// Either the whole order lands or nothing does; a header without items can
// never remain.
func (r *postgresRepository) Create(ctx context.Context, o *Order) (id int64, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Msg("repository: failed to rollback create order transaction")
			}
		}
	}()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	headerQuery := `
		INSERT INTO orders (customer_name, status, created_at, total, message, payer)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id
	`
	err = tx.QueryRow(ctx, headerQuery,
		o.CustomerName,
		string(o.Status),
		o.CreatedAt,
		o.Total(),
		o.Note,
		o.Paid,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order: %w", err)
	}
	o.ID = id

	if err = insertItems(ctx, tx, id, o.Items); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit transaction: %w", err)
	}

	return id, nil
}

// Update overwrites the header and fully replaces the item set: existing item
// rows are deleted and the new set is re-inserted, all in one transaction.
// Item ids from before the update no longer resolve afterwards.
func (r *postgresRepository) Update(ctx context.Context, o *Order) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Int64("order_id", o.ID).Msg("repository: failed to rollback update order transaction")
			}
		}
	}()

	headerQuery := `
		UPDATE orders
		SET customer_name = $1, status = $2, total = $3, message = NULLIF($4, ''), payer = $5
		WHERE id = $6
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		o.CustomerName,
		string(o.Status),
		o.Total(),
		o.Note,
		o.Paid,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %d: %w", o.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	if _, err = tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("repository: failed to delete items for order %d: %w", o.ID, err)
	}

	if err = insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit transaction: %w", err)
	}

	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID int64, items []Item) error {
	query := `
		INSERT INTO order_items (order_id, dish_id, dish_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range items {
		item := &items[i]
		err := tx.QueryRow(ctx, query,
			orderID,
			item.DishID,
			item.DishName,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %d: %w", orderID, err)
		}
	}
	return nil
}

func (r *postgresRepository) FindAll(ctx context.Context) ([]Order, error) {
	headerQuery := `
		SELECT id, customer_name, status, created_at, COALESCE(message, ''), payer
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, headerQuery)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	ordersMap := make(map[int64]*Order)
	var orderIDs []int64

	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Status, &o.CreatedAt, &o.Note, &o.Paid); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Items = make([]Item, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsQuery := `
		SELECT id, order_id, dish_id, dish_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	itemRows, err := r.db.Query(ctx, itemsQuery, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item Item
		if err := itemRows.Scan(&item.ID, &orderID, &item.DishID, &item.DishName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if o, ok := ordersMap[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	orders := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *ordersMap[id])
	}

	return orders, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*Order, error) {
	headerQuery := `
		SELECT id, customer_name, status, created_at, COALESCE(message, ''), payer
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, headerQuery, id).Scan(&o.ID, &o.CustomerName, &o.Status, &o.CreatedAt, &o.Note, &o.Paid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}

	itemsQuery := `
		SELECT id, dish_id, dish_name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query items for order %d: %w", id, err)
	}
	defer rows.Close()

	o.Items = make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.DishID, &item.DishName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("repository: failed to scan item for order %d: %w", id, err)
		}
		o.Items = append(o.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating items for order %d: %w", id, err)
	}

	return &o, nil
}

// Delete removes the order header; items go with it through the cascade.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// DeleteCancelledOlderThan removes cancelled orders created more than the
// given number of days ago. One idempotent sweep: calling it again with no
// new qualifying orders removes nothing.
func (r *postgresRepository) DeleteCancelledOlderThan(ctx context.Context, days int) (int64, error) {
	query := `
		DELETE FROM orders
		WHERE status = $1 AND created_at < now() - make_interval(days => $2)
	`

	cmdTag, err := r.db.Exec(ctx, query, string(StatusCancelled), days)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to purge cancelled orders: %w", err)
	}

	removed := cmdTag.RowsAffected()
	if removed > 0 {
		log.Info().Int64("removed", removed).Int("retention_days", days).Msg("repository: purged cancelled orders")
	}

	return removed, nil
}
