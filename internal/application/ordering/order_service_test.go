package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) StatusSummary(ctx context.Context) (map[ordering.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[ordering.OrderStatus]int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, category, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementSales(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of shopping.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*shopping.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type orderServiceFixture struct {
	service     *OrderService
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	cartRepo    *MockCartRepository
}

func newOrderServiceFixture() orderServiceFixture {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	cartRepo := new(MockCartRepository)
	scope := NewNoOpTransactionScope(orderRepo, productRepo, cartRepo)
	return orderServiceFixture{
		service:     NewOrderService(orderRepo, scope),
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func testProduct(t *testing.T, name string, price float64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", decimal.NewFromFloat(price), "laptops", "Awe", "X1", nil, stock)
	require.NoError(t, err)
	return product
}

func testAddress() ShippingAddressInput {
	return ShippingAddressInput{
		Recipient: "Alice Zhang",
		Street:    "1 Harbour Rd",
		City:      "Melbourne",
		Country:   "Australia",
	}
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("direct order decrements stock and saves", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := testProduct(t, "Laptop", 40.0, 10)

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.productRepo.On("DecrementStock", mock.Anything, product.ID, 2).Return(nil)
		f.productRepo.On("IncrementSales", mock.Anything, product.ID, 2).Return(nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

		resp, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 2}},
			ShippingAddress: testAddress(),
			PaymentMethod:   "credit_card",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, customerID, resp.CustomerID)
		assert.Len(t, resp.Items, 1)
		assert.True(t, decimal.NewFromFloat(80).Equal(resp.Subtotal))
		assert.True(t, decimal.NewFromFloat(6.4).Equal(resp.Tax))
		assert.True(t, decimal.NewFromFloat(10).Equal(resp.ShippingFee))
		assert.True(t, decimal.NewFromFloat(96.4).Equal(resp.Total))
		f.productRepo.AssertExpectations(t)
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("cart order uses selected lines and clears them", func(t *testing.T) {
		f := newOrderServiceFixture()
		selected := testProduct(t, "Mouse", 25.0, 50)
		skipped := testProduct(t, "Keyboard", 60.0, 50)

		cart, err := shopping.NewCart(customerID)
		require.NoError(t, err)
		require.NoError(t, cart.AddItem(selected.ID, selected.Name, "", selected.Price, 3))
		require.NoError(t, cart.AddItem(skipped.ID, skipped.Name, "", skipped.Price, 1))
		require.NoError(t, cart.UpdateSelection(skipped.ID, false))

		f.cartRepo.On("FindByCustomer", mock.Anything, customerID).Return(cart, nil)
		f.productRepo.On("FindByID", mock.Anything, selected.ID).Return(selected, nil)
		f.productRepo.On("DecrementStock", mock.Anything, selected.ID, 3).Return(nil)
		f.productRepo.On("IncrementSales", mock.Anything, selected.ID, 3).Return(nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)
		f.cartRepo.On("Save", mock.Anything, cart).Return(nil)

		resp, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			FromCart:        true,
			ShippingAddress: testAddress(),
			PaymentMethod:   "paypal",
		})

		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, "Mouse", resp.Items[0].ProductName)

		// unselected line stays in the cart
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, skipped.ID, cart.Items[0].ProductID)
		f.cartRepo.AssertExpectations(t)
		f.productRepo.AssertExpectations(t)
	})

	t.Run("fails when stock is insufficient", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := testProduct(t, "Laptop", 40.0, 1)

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.productRepo.On("DecrementStock", mock.Anything, product.ID, 5).Return(shared.ErrInsufficientStock)

		_, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 5}},
			ShippingAddress: testAddress(),
			PaymentMethod:   "credit_card",
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when product is unavailable", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := testProduct(t, "Laptop", 40.0, 10)
		product.Deactivate()

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
			ShippingAddress: testAddress(),
			PaymentMethod:   "credit_card",
		})

		require.Error(t, err)
		f.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fails when no cart line is selected", func(t *testing.T) {
		f := newOrderServiceFixture()
		cart, err := shopping.NewCart(customerID)
		require.NoError(t, err)

		f.cartRepo.On("FindByCustomer", mock.Anything, customerID).Return(cart, nil)

		_, err = f.service.Create(ctx, customerID, CreateOrderRequest{
			FromCart:        true,
			ShippingAddress: testAddress(),
			PaymentMethod:   "credit_card",
		})

		assert.ErrorIs(t, err, shared.ErrCartEmpty)
	})

	t.Run("fails with no items and no cart flag", func(t *testing.T) {
		f := newOrderServiceFixture()

		_, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			ShippingAddress: testAddress(),
			PaymentMethod:   "credit_card",
		})

		require.Error(t, err)
	})

	t.Run("fails with unknown payment method", func(t *testing.T) {
		f := newOrderServiceFixture()

		_, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
			ShippingAddress: testAddress(),
			PaymentMethod:   "cheque",
		})

		require.Error(t, err)
	})

	t.Run("merges duplicate direct lines", func(t *testing.T) {
		f := newOrderServiceFixture()
		product := testProduct(t, "Laptop", 40.0, 10)

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.productRepo.On("DecrementStock", mock.Anything, product.ID, 3).Return(nil)
		f.productRepo.On("IncrementSales", mock.Anything, product.ID, 3).Return(nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

		resp, err := f.service.Create(ctx, customerID, CreateOrderRequest{
			Items: []CreateOrderItemInput{
				{ProductID: product.ID, Quantity: 1},
				{ProductID: product.ID, Quantity: 2},
			},
			ShippingAddress: testAddress(),
			PaymentMethod:   "credit_card",
		})

		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, 3, resp.Items[0].Quantity)
	})
}

func newPlacedOrder(t *testing.T, customerID uuid.UUID) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder("AWE2504170001", customerID, []ordering.OrderLine{
		{ProductID: uuid.New(), ProductName: "Laptop", UnitPrice: decimal.NewFromFloat(40), Quantity: 2},
	}, ordering.ShippingAddress{Recipient: "Alice", Street: "1 Harbour Rd", City: "Melbourne"}, ordering.PaymentCreditCard, "")
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("moves pending order to paid", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, order.ID, UpdateOrderStatusRequest{Status: "paid"})

		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.NotNil(t, resp.PaidAt)
	})

	t.Run("rejects illegal transition", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.service.UpdateStatus(ctx, order.ID, UpdateOrderStatusRequest{Status: "shipped"})

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects cancellation through status update", func(t *testing.T) {
		f := newOrderServiceFixture()

		_, err := f.service.UpdateStatus(ctx, uuid.New(), UpdateOrderStatusRequest{Status: "cancelled"})

		require.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("returns not found from repository", func(t *testing.T) {
		f := newOrderServiceFixture()
		orderID := uuid.New()

		f.orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

		_, err := f.service.UpdateStatus(ctx, orderID, UpdateOrderStatusRequest{Status: "paid"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("cancels pending order and restores stock", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)
		productID := order.Items[0].ProductID

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.productRepo.On("RestoreStock", mock.Anything, productID, 2).Return(nil)
		f.productRepo.On("IncrementSales", mock.Anything, productID, -2).Return(nil)

		resp, err := f.service.Cancel(ctx, order.ID, CancelOrderRequest{Reason: "changed my mind"})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "changed my mind", resp.CancelReason)
		assert.NotNil(t, resp.CancelledAt)
		f.productRepo.AssertExpectations(t)
	})

	t.Run("refund restores stock too", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)
		require.NoError(t, order.MarkPaid())
		order.ClearDomainEvents()
		productID := order.Items[0].ProductID

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.productRepo.On("RestoreStock", mock.Anything, productID, 2).Return(nil)
		f.productRepo.On("IncrementSales", mock.Anything, productID, -2).Return(nil)

		resp, err := f.service.Refund(ctx, order.ID, CancelOrderRequest{Reason: "faulty unit"})

		require.NoError(t, err)
		assert.Equal(t, "refunded", resp.Status)
	})

	t.Run("cannot cancel shipped order", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.StartProcessing())
		require.NoError(t, order.Ship())
		order.ClearDomainEvents()

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.service.Cancel(ctx, order.ID, CancelOrderRequest{})

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		f.productRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("deletes archived order", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)
		order.Archive()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Delete", ctx, order.ID).Return(nil)

		err := f.service.Delete(ctx, order.ID)

		assert.NoError(t, err)
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("announces the deletion so projections follow", func(t *testing.T) {
		f := newOrderServiceFixture()
		publisher := &capturingPublisher{}
		f.service.SetEventPublisher(publisher)

		order := newPlacedOrder(t, customerID)
		order.Archive()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("Delete", ctx, order.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, order.ID))

		require.Len(t, publisher.events, 1)
		deleted, ok := publisher.events[0].(*ordering.OrderDeletedEvent)
		require.True(t, ok)
		assert.Equal(t, order.ID, deleted.OrderID)
		assert.Equal(t, order.OrderNumber, deleted.OrderNumber)
	})

	t.Run("refuses to delete an active order", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		err := f.service.Delete(ctx, order.ID)

		require.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("applies defaults and returns totals", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newPlacedOrder(t, customerID)

		expected := mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Page == 1 && filter.PageSize == 20 && filter.OrderBy == "created_at" && filter.OrderDir == "desc"
		})
		f.orderRepo.On("FindAll", ctx, expected).Return([]ordering.Order{*order}, nil)
		f.orderRepo.On("Count", ctx, expected).Return(int64(1), nil)

		responses, total, err := f.service.List(ctx, OrderListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, responses, 1)
	})

	t.Run("passes status filter through", func(t *testing.T) {
		f := newOrderServiceFixture()
		status := "paid"

		expected := mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "paid"
		})
		f.orderRepo.On("FindByCustomer", ctx, customerID, expected).Return([]ordering.Order{}, nil)
		f.orderRepo.On("CountByCustomer", ctx, customerID, expected).Return(int64(0), nil)

		_, total, err := f.service.ListByCustomer(ctx, customerID, OrderListFilter{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}

func TestOrderService_GetStatusSummary(t *testing.T) {
	ctx := context.Background()

	f := newOrderServiceFixture()
	f.orderRepo.On("StatusSummary", ctx).Return(map[ordering.OrderStatus]int64{
		ordering.OrderStatusPending: 3,
		ordering.OrderStatusPaid:    2,
	}, nil)

	summary, err := f.service.GetStatusSummary(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.Total)
	assert.Equal(t, int64(3), summary.ByStatus["pending"])
	assert.Equal(t, int64(2), summary.ByStatus["paid"])
}

func TestOrderService_GetByOrderNumber(t *testing.T) {
	ctx := context.Background()
	f := newOrderServiceFixture()

	f.orderRepo.On("FindByOrderNumber", ctx, "AWE0000000000").Return(nil, shared.ErrNotFound)

	_, err := f.service.GetByOrderNumber(ctx, "AWE0000000000")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
