package repository

import (
	"context"
	"testing"
	"time"

	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(userID, addressID uuid.UUID, voucherCode *string) *model.Order {
	now := time.Now()
	return &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		AddressID:       addressID,
		VoucherCode:     voucherCode,
		TotalMRP:        19997,
		TotalPrice:      12497,
		ProductDiscount: 7500,
		VoucherDiscount: 500,
		FinalAmount:     11997,
		DeliveryDays:    2,
		PromiseDate:     "Tue, 19 Dec",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func setupOrderTest(t *testing.T) (*pgxpool.Pool, OrderRepository, model.Address, func()) {
	pool, cleanup := setupTestDB(t)
	seedProducts(t, pool, furniture())
	address := seedAddress(t, pool, uuid.New(), "226001", true)
	return pool, NewOrderRepository(pool, zerolog.Nop()), address, cleanup
}

func TestOrderRepository_BeginTx(t *testing.T) {
	_, repo, _, cleanup := setupOrderTest(t)
	defer cleanup()

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_CreateOrder(t *testing.T) {
	_, repo, address, cleanup := setupOrderTest(t)
	defer cleanup()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	code := "FURNI500"

	tests := []struct {
		name  string
		order *model.Order
	}{
		{name: "Create order with voucher code", order: newOrder(address.UserID, address.ID, &code)},
		{name: "Create order without voucher code", order: newOrder(address.UserID, address.ID, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, repo.CreateOrder(ctx, tx, tt.order))

			var count int
			err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE id = $1", tt.order.ID).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestOrderRepository_CreateOrderItems(t *testing.T) {
	_, repo, address, cleanup := setupOrderTest(t)
	defer cleanup()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	order := newOrder(address.UserID, address.ID, nil)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	t.Run("Empty items", func(t *testing.T) {
		assert.NoError(t, repo.CreateOrderItems(ctx, tx, nil))
	})

	t.Run("Unknown product fails", func(t *testing.T) {
		nested, err := tx.Begin(ctx)
		require.NoError(t, err)
		defer nested.Rollback(ctx)

		err = repo.CreateOrderItems(ctx, nested, []model.OrderItem{
			{ID: uuid.New(), OrderID: order.ID, ProductID: "P999", Quantity: 1, UnitPrice: 1, ListPrice: 1},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create order item")
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	_, repo, address, cleanup := setupOrderTest(t)
	defer cleanup()

	ctx := context.Background()
	code := "FURNI500"
	order := newOrder(address.UserID, address.ID, &code)
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: "P001", Quantity: 2, UnitPrice: 4999, ListPrice: 7999},
		{ID: uuid.New(), OrderID: order.ID, ProductID: "P004", Quantity: 1, UnitPrice: 2499, ListPrice: 3999},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	t.Run("Order exists with items", func(t *testing.T) {
		got, gotItems, err := repo.GetByID(ctx, order.ID)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, order.UserID, got.UserID)
		assert.Equal(t, order.AddressID, got.AddressID)
		require.NotNil(t, got.VoucherCode)
		assert.Equal(t, code, *got.VoucherCode)
		assert.Equal(t, 19997.0, got.TotalMRP)
		assert.Equal(t, 12497.0, got.TotalPrice)
		assert.Equal(t, 7500.0, got.ProductDiscount)
		assert.Equal(t, 500.0, got.VoucherDiscount)
		assert.Equal(t, 11997.0, got.FinalAmount)
		assert.Equal(t, 2, got.DeliveryDays)
		assert.Equal(t, "Tue, 19 Dec", got.PromiseDate)

		require.Len(t, gotItems, 2)
		assert.Equal(t, "P001", gotItems[0].ProductID)
		assert.Equal(t, 2, gotItems[0].Quantity)
		assert.Equal(t, 4999.0, gotItems[0].UnitPrice)
		assert.Equal(t, 7999.0, gotItems[0].ListPrice)
	})

	t.Run("Order does not exist", func(t *testing.T) {
		got, gotItems, err := repo.GetByID(ctx, uuid.New())

		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Nil(t, gotItems)
	})
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	_, repo, address, cleanup := setupOrderTest(t)
	defer cleanup()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	order := newOrder(address.UserID, address.ID, nil)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, tx.Rollback(ctx))

	got, _, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_ErrorPaths(t *testing.T) {
	pool, repo, _, cleanup := setupOrderTest(t)
	defer cleanup()

	ctx := context.Background()

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("BeginTx with closed pool", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)

		require.Error(t, err)
		assert.Nil(t, tx)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		order, items, err := repo.GetByID(ctx, uuid.New())

		require.Error(t, err)
		assert.Nil(t, order)
		assert.Nil(t, items)
	})
}
