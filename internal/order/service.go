package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/foyer-pos/foyer-backend/internal/dish"
)

// Catalog is the slice of the dish catalog the order core consumes.
// dish.Repository satisfies it.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*dish.Dish, error)
}

// ItemRequest is one (dish, quantity) pair of a composition request.
type ItemRequest struct {
	DishID   int64
	Quantity int
}

// ComposeRequest is what the caller submits to create or edit an order.
// OrderID must be nil when creating and set when updating; mismatched usage
// is a validation error, never a silent duplicate.
type ComposeRequest struct {
	OrderID      *int64
	CustomerName string
	Status       Status
	Note         string
	Paid         bool
	Items        []ItemRequest
}

type Service interface {
	CreateOrder(ctx context.Context, req ComposeRequest) (int64, error)
	UpdateOrder(ctx context.Context, req ComposeRequest) error
	ChangeStatus(ctx context.Context, id int64, newStatus Status, paid *bool) error
	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	PurgeCancelled(ctx context.Context) (int64, error)
}

type service struct {
	repo          Repository
	catalog       Catalog
	retentionDays int
}

func NewService(repo Repository, catalog Catalog, retentionDays int) Service {
	return &service{
		repo:          repo,
		catalog:       catalog,
		retentionDays: retentionDays,
	}
}

// compose validates a request and builds the order it describes, snapshotting
// dish name and price into each item. Any catalog miss fails the whole
// composition.
func (s *service) compose(ctx context.Context, req ComposeRequest) (*Order, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, newValidationError("customer_name", "customer name is required")
	}
	if len(req.Items) == 0 {
		return nil, newValidationError("items", "order must contain at least one item")
	}

	status := req.Status
	if status == "" {
		status = StatusOpen
	}
	if !status.Valid() {
		return nil, newValidationError("status", "unknown status %q", req.Status)
	}

	o := &Order{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Status:       status,
		Note:         strings.TrimSpace(req.Note),
		Paid:         req.Paid,
		Items:        make([]Item, 0, len(req.Items)),
	}

	noteRequired := false
	for _, ir := range req.Items {
		if ir.Quantity <= 0 {
			return nil, newValidationError("items", "quantity for dish %d must be greater than zero", ir.DishID)
		}

		d, err := s.catalog.GetByID(ctx, ir.DishID)
		if err != nil {
			if errors.Is(err, dish.ErrDishNotFound) {
				return nil, newValidationError("items", "dish %d does not exist", ir.DishID)
			}
			log.Error().Err(err).Int64("dish_id", ir.DishID).Msg("service: failed to resolve dish for composition")
			return nil, fmt.Errorf("service: failed to resolve dish %d: %w", ir.DishID, err)
		}

		if d.Category.RequiresNote() {
			noteRequired = true
		}

		o.Items = append(o.Items, Item{
			DishID:    d.ID,
			DishName:  d.Name,
			Quantity:  ir.Quantity,
			UnitPrice: d.Price,
		})
	}

	if noteRequired && o.Note == "" {
		return nil, newValidationError("note", "a note is required when the order contains a menu dish")
	}

	return o, nil
}

func (s *service) CreateOrder(ctx context.Context, req ComposeRequest) (int64, error) {
	if req.OrderID != nil {
		return 0, newValidationError("order_id", "order id must be absent when creating")
	}

	o, err := s.compose(ctx, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, o)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return 0, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Int64("order_id", id).Str("customer", o.CustomerName).Float64("total", o.Total()).Msg("service: order created")
	return id, nil
}

func (s *service) UpdateOrder(ctx context.Context, req ComposeRequest) error {
	if req.OrderID == nil {
		return newValidationError("order_id", "order id is required for updates")
	}

	current, err := s.repo.FindByID(ctx, *req.OrderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", *req.OrderID).Msg("service: failed to fetch order for update")
		return fmt.Errorf("service: failed to fetch order for update: %w", err)
	}

	// A blank status on an edit keeps the order where it is.
	if req.Status == "" {
		req.Status = current.Status
	}

	o, err := s.compose(ctx, req)
	if err != nil {
		return err
	}
	o.ID = current.ID
	o.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, o); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", o.ID).Msg("service: failed to update order in repository")
		return fmt.Errorf("service: failed to update order: %w", err)
	}

	log.Info().Int64("order_id", o.ID).Str("status", o.Status.String()).Float64("total", o.Total()).Msg("service: order updated")
	return nil
}

// ChangeStatus re-persists an order under a new status, recomputing the total
// from its existing items. Any status can be set to any other; the core does
// not police transitions.
func (s *service) ChangeStatus(ctx context.Context, id int64, newStatus Status, paid *bool) error {
	if !newStatus.Valid() {
		return newValidationError("status", "unknown status %q", newStatus)
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to fetch order for status change")
		return fmt.Errorf("service: failed to fetch order for status change: %w", err)
	}

	oldStatus := o.Status
	o.Status = newStatus
	if paid != nil {
		o.Paid = *paid
	}

	if err := s.repo.Update(ctx, o); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to persist status change")
		return fmt.Errorf("service: failed to persist status change: %w", err)
	}

	log.Info().Int64("order_id", id).Str("old_status", oldStatus.String()).Str("new_status", newStatus.String()).Msg("service: order status changed")
	return nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to fetch order by id")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to delete order")
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	log.Info().Int64("order_id", id).Msg("service: order deleted")
	return nil
}

// PurgeCancelled sweeps cancelled orders past the configured retention.
// Callers treat a failure here as non-fatal to their refresh flow.
func (s *service) PurgeCancelled(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteCancelledOlderThan(ctx, s.retentionDays)
	if err != nil {
		log.Error().Err(err).Msg("service: purge sweep failed")
		return 0, fmt.Errorf("service: purge sweep failed: %w", err)
	}
	return removed, nil
}
