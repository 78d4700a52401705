package dish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service interface {
	ListDishes(ctx context.Context) ([]Dish, error)
	GetDish(ctx context.Context, id int64) (*Dish, error)
	CreateDish(ctx context.Context, d *Dish) (int64, error)
	UpdateDish(ctx context.Context, d *Dish) error
	DeleteDish(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateDish(d *Dish) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("service: dish name is required")
	}
	if d.Price < 0 {
		return fmt.Errorf("service: dish price must be non-negative, got %f", d.Price)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("service: unknown dish category %q", d.Category)
	}
	return nil
}

func (s *service) ListDishes(ctx context.Context) ([]Dish, error) {
	dishes, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list dishes in repository")
		return nil, fmt.Errorf("service: failed to list dishes: %w", err)
	}
	return dishes, nil
}

func (s *service) GetDish(ctx context.Context, id int64) (*Dish, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return nil, ErrDishNotFound
		}
		log.Error().Err(err).Int64("dish_id", id).Msg("service: failed to fetch dish by id in repository")
		return nil, fmt.Errorf("service: failed to fetch dish by id: %w", err)
	}
	return d, nil
}

func (s *service) CreateDish(ctx context.Context, d *Dish) (int64, error) {
	if err := validateDish(d); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, d)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create dish in repository")
		return 0, fmt.Errorf("service: failed to create dish: %w", err)
	}

	log.Info().Int64("dish_id", id).Str("name", d.Name).Msg("service: dish created")
	return id, nil
}

func (s *service) UpdateDish(ctx context.Context, d *Dish) error {
	if err := validateDish(d); err != nil {
		return err
	}

	err := s.repo.Update(ctx, d)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return ErrDishNotFound
		}
		log.Error().Err(err).Int64("dish_id", d.ID).Msg("service: failed to update dish in repository")
		return fmt.Errorf("service: failed to update dish: %w", err)
	}

	return nil
}

func (s *service) DeleteDish(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) || errors.Is(err, ErrDishInUse) {
			return err
		}
		log.Error().Err(err).Int64("dish_id", id).Msg("service: failed to delete dish in repository")
		return fmt.Errorf("service: failed to delete dish: %w", err)
	}

	log.Info().Int64("dish_id", id).Msg("service: dish deleted")
	return nil
}
