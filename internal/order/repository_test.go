package order_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyer-pos/foyer-backend/internal/order"
)

var testPool *pgxpool.Pool

// TestMain connects to the database named by TEST_DATABASE_URL. Without it
// the integration tests below skip, the unit tests in this package still run.
func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			panic("failed to connect to test database: " + err.Error())
		}
		testPool = pool
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

// setup truncates the tables and seeds two dishes, returning their ids.
func setup(t *testing.T) (order.Repository, int64, int64) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL not set, skipping repository integration tests")
	}

	ctx := context.Background()
	_, err := testPool.Exec(ctx, "TRUNCATE TABLE order_items, orders, dishes RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	var margheritaID, cokeID int64
	err = testPool.QueryRow(ctx,
		`INSERT INTO dishes (name, price, category) VALUES ('Margherita', 8.50, 'MAIN') RETURNING id`).Scan(&margheritaID)
	require.NoError(t, err)
	err = testPool.QueryRow(ctx,
		`INSERT INTO dishes (name, price, category) VALUES ('Coke', 2.00, 'DRINK') RETURNING id`).Scan(&cokeID)
	require.NoError(t, err)

	return order.NewRepository(testPool), margheritaID, cokeID
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	repo, margheritaID, cokeID := setup(t)
	ctx := context.Background()

	o := &order.Order{
		CustomerName: "Dupont",
		Status:       order.StatusOpen,
		Note:         "no onions",
		Items: []order.Item{
			{DishID: margheritaID, DishName: "Margherita", Quantity: 2, UnitPrice: 8.50},
			{DishID: cokeID, DishName: "Coke", Quantity: 1, UnitPrice: 2.00},
		},
	}

	id, err := repo.Create(ctx, o)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Dupont", got.CustomerName)
	assert.Equal(t, order.StatusOpen, got.Status)
	assert.Equal(t, "no onions", got.Note)
	assert.False(t, got.Paid)
	assert.InDelta(t, 19.00, got.Total(), 1e-9)

	// Round-trip modulo assigned item ids.
	diff := cmp.Diff(o.Items, got.Items, cmpopts.IgnoreFields(order.Item{}, "ID"))
	assert.Empty(t, diff)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo, _, _ := setup(t)

	_, err := repo.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_Update_ReplacesItems(t *testing.T) {
	repo, margheritaID, cokeID := setup(t)
	ctx := context.Background()

	o := &order.Order{
		CustomerName: "Dupont",
		Status:       order.StatusOpen,
		Items: []order.Item{
			{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
		},
	}
	id, err := repo.Create(ctx, o)
	require.NoError(t, err)

	before, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, before.Items, 1)
	oldItemID := before.Items[0].ID

	before.Items = []order.Item{
		{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
		{DishID: cokeID, DishName: "Coke", Quantity: 2, UnitPrice: 2.00},
		{DishID: cokeID, DishName: "Coke", Quantity: 1, UnitPrice: 2.00},
	}
	before.Status = order.StatusFinished
	before.Paid = true
	require.NoError(t, repo.Update(ctx, before))

	after, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, order.StatusFinished, after.Status)
	assert.True(t, after.Paid)
	require.Len(t, after.Items, 3)
	// Full replace: the old item row is gone.
	for _, item := range after.Items {
		assert.NotEqual(t, oldItemID, item.ID)
	}

	var count int
	err = testPool.QueryRow(ctx, "SELECT count(*) FROM order_items WHERE id = $1", oldItemID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, margheritaID, _ := setup(t)

	err := repo.Update(context.Background(), &order.Order{
		ID:           9999,
		CustomerName: "Ghost",
		Status:       order.StatusOpen,
		Items: []order.Item{
			{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
		},
	})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_FindAll_MostRecentFirst(t *testing.T) {
	repo, margheritaID, _ := setup(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, name := range []string{"first", "second", "third"} {
		o := &order.Order{
			CustomerName: name,
			Status:       order.StatusOpen,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			Items: []order.Item{
				{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
			},
		}
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	orders, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "third", orders[0].CustomerName)
	assert.Equal(t, "second", orders[1].CustomerName)
	assert.Equal(t, "first", orders[2].CustomerName)
	for _, o := range orders {
		assert.Len(t, o.Items, 1)
	}
}

func TestRepository_Delete_CascadesItems(t *testing.T) {
	repo, margheritaID, _ := setup(t)
	ctx := context.Background()

	o := &order.Order{
		CustomerName: "Dupont",
		Status:       order.StatusOpen,
		Items: []order.Item{
			{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
		},
	}
	id, err := repo.Create(ctx, o)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	var count int
	err = testPool.QueryRow(ctx, "SELECT count(*) FROM order_items WHERE order_id = $1", id).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, id), order.ErrOrderNotFound)
}

func TestRepository_PurgeCancelled_Idempotent(t *testing.T) {
	repo, margheritaID, _ := setup(t)
	ctx := context.Background()

	stale := &order.Order{
		CustomerName: "Old Cancelled",
		Status:       order.StatusCancelled,
		CreatedAt:    time.Now().UTC().Add(-8 * 24 * time.Hour),
		Items: []order.Item{
			{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
		},
	}
	staleID, err := repo.Create(ctx, stale)
	require.NoError(t, err)

	fresh := &order.Order{
		CustomerName: "Fresh Cancelled",
		Status:       order.StatusCancelled,
		Items: []order.Item{
			{DishID: margheritaID, DishName: "Margherita", Quantity: 1, UnitPrice: 8.50},
		},
	}
	freshID, err := repo.Create(ctx, fresh)
	require.NoError(t, err)

	removed, err := repo.DeleteCancelledOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindByID(ctx, staleID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	_, err = repo.FindByID(ctx, freshID)
	assert.NoError(t, err)

	var count int
	err = testPool.QueryRow(ctx, "SELECT count(*) FROM order_items WHERE order_id = $1", staleID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Second sweep with nothing new qualifying removes nothing.
	removed, err = repo.DeleteCancelledOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
