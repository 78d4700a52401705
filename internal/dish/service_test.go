package dish_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyer-pos/foyer-backend/internal/dish"
)

type mockRepository struct {
	listFunc   func(ctx context.Context) ([]dish.Dish, error)
	getFunc    func(ctx context.Context, id int64) (*dish.Dish, error)
	createFunc func(ctx context.Context, d *dish.Dish) (int64, error)
	updateFunc func(ctx context.Context, d *dish.Dish) error
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockRepository) List(ctx context.Context) ([]dish.Dish, error) {
	return m.listFunc(ctx)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*dish.Dish, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) Create(ctx context.Context, d *dish.Dish) (int64, error) {
	return m.createFunc(ctx, d)
}

func (m *mockRepository) Update(ctx context.Context, d *dish.Dish) error {
	return m.updateFunc(ctx, d)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

func TestService_CreateDish_Validation(t *testing.T) {
	tests := []struct {
		name string
		d    dish.Dish
	}{
		{name: "blank_name", d: dish.Dish{Name: "  ", Price: 5, Category: dish.CategoryMain}},
		{name: "negative_price", d: dish.Dish{Name: "Soup", Price: -1, Category: dish.CategoryStarter}},
		{name: "unknown_category", d: dish.Dish{Name: "Soup", Price: 5, Category: "SIDE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{
				createFunc: func(ctx context.Context, d *dish.Dish) (int64, error) {
					t.Fatal("repository must not be reached on validation failure")
					return 0, nil
				},
			}
			svc := dish.NewService(repo)

			_, err := svc.CreateDish(context.Background(), &tt.d)
			assert.Error(t, err)
		})
	}
}

func TestService_CreateDish(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, d *dish.Dish) (int64, error) {
			d.ID = 5
			return 5, nil
		},
	}
	svc := dish.NewService(repo)

	d := dish.Dish{Name: "Margherita", Price: 8.50, Category: dish.CategoryMain}
	id, err := svc.CreateDish(context.Background(), &d)

	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, int64(5), d.ID)
}

func TestService_GetDish_NotFound(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id int64) (*dish.Dish, error) {
			return nil, dish.ErrDishNotFound
		},
	}
	svc := dish.NewService(repo)

	_, err := svc.GetDish(context.Background(), 99)
	assert.ErrorIs(t, err, dish.ErrDishNotFound)
}

func TestService_DeleteDish_InUse(t *testing.T) {
	repo := &mockRepository{
		deleteFunc: func(ctx context.Context, id int64) error {
			return dish.ErrDishInUse
		},
	}
	svc := dish.NewService(repo)

	err := svc.DeleteDish(context.Background(), 1)
	assert.ErrorIs(t, err, dish.ErrDishInUse)
}

func TestCategory_RequiresNote(t *testing.T) {
	assert.True(t, dish.CategoryMenu.RequiresNote())
	for _, c := range []dish.Category{dish.CategoryStarter, dish.CategoryMain, dish.CategoryDessert, dish.CategoryDrink} {
		assert.False(t, c.RequiresNote(), c)
	}
}

func TestService_ListDishes_WrapsRepositoryError(t *testing.T) {
	repo := &mockRepository{
		listFunc: func(ctx context.Context) ([]dish.Dish, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := dish.NewService(repo)

	_, err := svc.ListDishes(context.Background())
	assert.Error(t, err)
}
