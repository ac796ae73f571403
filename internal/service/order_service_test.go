package service

import (
	"context"
	"errors"
	"testing"

	"furnistore/internal/metrics"
	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *MockOrderRepository
	carts     *MockCartRepository
	addresses *MockAddressRepository
	products  *MockProductRepository
	vouchers  *MockVoucherService
	tx        *MockTx
	metrics   *metrics.Metrics
	svc       OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := &orderFixture{
		orders:    new(MockOrderRepository),
		carts:     new(MockCartRepository),
		addresses: new(MockAddressRepository),
		products:  new(MockProductRepository),
		vouchers:  new(MockVoucherService),
		tx:        new(MockTx),
		metrics:   metrics.New(),
	}
	cartSvc := NewCartService(f.carts, f.products, f.vouchers, nil, zerolog.Nop())
	f.svc = NewOrderService(OrderDeps{
		Orders:    f.orders,
		Carts:     f.carts,
		Addresses: f.addresses,
		Products:  f.products,
		CartSvc:   cartSvc,
		Vouchers:  f.vouchers,
		Planner:   newTestPlanner(t),
		Metrics:   f.metrics,
	}, zerolog.Nop())
	return f
}

func (f *orderFixture) expectAddress(ctx context.Context, userID uuid.UUID, postalCode string) *model.Address {
	address := &model.Address{ID: uuid.New(), UserID: userID, PostalCode: postalCode}
	f.addresses.On("GetByID", ctx, userID, address.ID).Return(address, nil)
	return address
}

func (f *orderFixture) expectCart(ctx context.Context, userID uuid.UUID, selected *model.Voucher) {
	f.carts.On("ListItems", ctx, userID).Return([]model.CartItem{
		{ProductID: "P001", Quantity: 2},
		{ProductID: "P002", Quantity: 1},
	}, nil)
	f.products.On("GetByIDs", ctx, []string{"P001", "P002"}).Return(cartProducts, nil)
	if selected == nil {
		f.vouchers.On("Selected", ctx, userID).Return(nil, nil)
	} else {
		f.vouchers.On("Selected", ctx, userID).Return(selected, nil)
	}
}

// orderedLines is the snapshot expectCart hands to checkout.
func orderedLines(userID uuid.UUID) []model.CartItem {
	return []model.CartItem{
		{UserID: userID, ProductID: "P001", Quantity: 2},
		{UserID: userID, ProductID: "P002", Quantity: 1},
	}
}

func TestOrderService_Checkout_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newOrderFixture(t)

	address := f.expectAddress(ctx, userID, "251001")
	f.expectCart(ctx, userID, &model.Voucher{Code: "FLAT500", Title: "Flat ₹500 off", MinimumSpend: 5000})

	var created *model.Order
	f.orders.On("BeginTx", ctx).Return(f.tx, nil)
	f.orders.On("CreateOrder", ctx, f.tx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { created = args.Get(2).(*model.Order) }).
		Return(nil)
	f.orders.On("CreateOrderItems", ctx, f.tx, mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].ProductID == "P001" && items[0].Quantity == 2 &&
			items[0].UnitPrice == 4999 && items[0].ListPrice == 7999
	})).Return(nil)
	f.carts.On("RemoveOrderedTx", ctx, f.tx, userID, orderedLines(userID)).Return(true, nil)
	f.tx.On("Commit", ctx).Return(nil)
	f.vouchers.On("Clear", ctx, userID).Return(nil)

	resp, err := f.svc.Checkout(ctx, userID, &model.OrderRequest{AddressID: address.ID})

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, resp.Order.ID)
	assert.Equal(t, userID, resp.Order.UserID)
	assert.Equal(t, address.ID, resp.Order.AddressID)
	require.NotNil(t, resp.Order.VoucherCode)
	assert.Equal(t, "FLAT500", *resp.Order.VoucherCode)
	assert.Equal(t, 10998.0, resp.Order.TotalPrice)
	assert.Equal(t, 500.0, resp.Order.VoucherDiscount)
	assert.Equal(t, 10498.0, resp.Order.FinalAmount)
	assert.Equal(t, 4, resp.Order.DeliveryDays)
	assert.Equal(t, "Tue, 19 Dec", resp.Order.PromiseDate)
	assert.Len(t, resp.Items, 2)
	assert.Len(t, resp.Products, 2)
	assert.True(t, resp.Breakdown.VoucherApplicable)

	count, err := testutil.GatherAndCount(f.metrics.Registry(), "furnistore_checkout_final_amount_rupees")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	f.orders.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.vouchers.AssertExpectations(t)
	f.tx.AssertExpectations(t)
	f.tx.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestOrderService_Checkout_VoucherBelowMinimumIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newOrderFixture(t)

	address := f.expectAddress(ctx, userID, "226001")
	f.expectCart(ctx, userID, &model.Voucher{Code: "BIGBUY", Title: "₹5000 off", MinimumSpend: 50000})
	f.orders.On("BeginTx", ctx).Return(f.tx, nil)
	f.orders.On("CreateOrder", ctx, f.tx, mock.MatchedBy(func(o *model.Order) bool {
		return o.VoucherCode == nil && o.VoucherDiscount == 0 && o.FinalAmount == 10998
	})).Return(nil)
	f.orders.On("CreateOrderItems", ctx, f.tx, mock.Anything).Return(nil)
	f.carts.On("RemoveOrderedTx", ctx, f.tx, userID, orderedLines(userID)).Return(true, nil)
	f.tx.On("Commit", ctx).Return(nil)
	f.vouchers.On("Clear", ctx, userID).Return(errors.New("redis down"))

	resp, err := f.svc.Checkout(ctx, userID, &model.OrderRequest{AddressID: address.ID})

	// A failed voucher clear does not undo the committed order.
	require.NoError(t, err)
	assert.Nil(t, resp.Order.VoucherCode)
	assert.Equal(t, 2, resp.Order.DeliveryDays)
}

func TestOrderService_Checkout_Rejections(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Address not owned", func(t *testing.T) {
		f := newOrderFixture(t)
		addressID := uuid.New()
		f.addresses.On("GetByID", ctx, userID, addressID).Return(nil, nil)

		resp, err := f.svc.Checkout(ctx, userID, &model.OrderRequest{AddressID: addressID})

		assert.Equal(t, model.ErrAddressNotFound, err)
		assert.Nil(t, resp)
		f.orders.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("Missing address ID", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.svc.Checkout(ctx, userID, &model.OrderRequest{})

		assert.Equal(t, model.ErrAddressNotFound, err)
	})

	t.Run("Empty cart", func(t *testing.T) {
		f := newOrderFixture(t)
		address := f.expectAddress(ctx, userID, "226001")
		f.carts.On("ListItems", ctx, userID).Return([]model.CartItem{}, nil)
		f.products.On("GetByIDs", ctx, []string{}).Return([]model.Product{}, nil)
		f.vouchers.On("Selected", ctx, userID).Return(nil, nil)

		_, err := f.svc.Checkout(ctx, userID, &model.OrderRequest{AddressID: address.ID})

		assert.Equal(t, model.ErrEmptyCart, err)
		f.orders.AssertNotCalled(t, "BeginTx", mock.Anything)
	})
}

func TestOrderService_Checkout_RollsBack(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name    string
		setup   func(f *orderFixture)
		wantErr error
	}{
		{
			name: "Create order fails",
			setup: func(f *orderFixture) {
				f.orders.On("CreateOrder", ctx, f.tx, mock.Anything).Return(errors.New("insert failed"))
			},
		},
		{
			name: "Create items fails",
			setup: func(f *orderFixture) {
				f.orders.On("CreateOrder", ctx, f.tx, mock.Anything).Return(nil)
				f.orders.On("CreateOrderItems", ctx, f.tx, mock.Anything).Return(errors.New("insert failed"))
			},
		},
		{
			name: "Clearing the cart fails",
			setup: func(f *orderFixture) {
				f.orders.On("CreateOrder", ctx, f.tx, mock.Anything).Return(nil)
				f.orders.On("CreateOrderItems", ctx, f.tx, mock.Anything).Return(nil)
				f.carts.On("RemoveOrderedTx", ctx, f.tx, userID, mock.Anything).Return(false, errors.New("delete failed"))
			},
		},
		{
			name: "Cart changed since it was priced",
			setup: func(f *orderFixture) {
				f.orders.On("CreateOrder", ctx, f.tx, mock.Anything).Return(nil)
				f.orders.On("CreateOrderItems", ctx, f.tx, mock.Anything).Return(nil)
				f.carts.On("RemoveOrderedTx", ctx, f.tx, userID, orderedLines(userID)).Return(false, nil)
			},
			wantErr: model.ErrCartChanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			address := f.expectAddress(ctx, userID, "226001")
			f.expectCart(ctx, userID, nil)
			f.orders.On("BeginTx", ctx).Return(f.tx, nil)
			f.tx.On("Rollback", ctx).Return(nil)
			tt.setup(f)

			resp, err := f.svc.Checkout(ctx, userID, &model.OrderRequest{AddressID: address.ID})

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, resp)
			f.tx.AssertCalled(t, "Rollback", ctx)
			f.tx.AssertNotCalled(t, "Commit", mock.Anything)
			f.vouchers.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	code := "FLAT500"
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		VoucherCode:     &code,
		TotalMRP:        16998,
		TotalPrice:      10998,
		ProductDiscount: 6000,
		VoucherDiscount: 500,
		FinalAmount:     10498,
	}
	items := []model.OrderItem{{OrderID: order.ID, ProductID: "P001", Quantity: 2}}

	t.Run("Owner", func(t *testing.T) {
		f := newOrderFixture(t)
		f.orders.On("GetByID", ctx, order.ID).Return(order, items, nil)
		f.products.On("GetByIDs", ctx, []string{"P001"}).Return([]model.Product{cartProducts[0]}, nil)

		resp, err := f.svc.GetByID(ctx, userID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, order.ID, resp.Order.ID)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, 38, resp.Products[0].DiscountPercent)
		assert.True(t, resp.Breakdown.VoucherApplicable)
		assert.Equal(t, 10498.0, resp.Breakdown.FinalAmount)
	})

	t.Run("Another user", func(t *testing.T) {
		f := newOrderFixture(t)
		f.orders.On("GetByID", ctx, order.ID).Return(order, items, nil)

		resp, err := f.svc.GetByID(ctx, uuid.New(), order.ID)

		assert.Equal(t, model.ErrOrderNotFound, err)
		assert.Nil(t, resp)
	})

	t.Run("Missing order", func(t *testing.T) {
		f := newOrderFixture(t)
		missing := uuid.New()
		f.orders.On("GetByID", ctx, missing).Return(nil, nil, nil)

		_, err := f.svc.GetByID(ctx, userID, missing)

		assert.Equal(t, model.ErrOrderNotFound, err)
	})

	t.Run("Repository error", func(t *testing.T) {
		f := newOrderFixture(t)
		f.orders.On("GetByID", ctx, order.ID).Return(nil, nil, errors.New("database error"))

		_, err := f.svc.GetByID(ctx, userID, order.ID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get order")
	})
}
