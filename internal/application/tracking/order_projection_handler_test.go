package tracking

import (
	"context"
	"testing"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/tracking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProjectionOrder(t *testing.T) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder("AWE2504170042", uuid.New(), []ordering.OrderLine{
		{ProductID: uuid.New(), ProductName: "Laptop", UnitPrice: decimal.NewFromFloat(899), Quantity: 1},
	}, ordering.ShippingAddress{Recipient: "Alice", Street: "1 Harbour Rd", City: "Melbourne"}, ordering.PaymentCreditCard, "")
	require.NoError(t, err)
	return order
}

func lastEvent(t *testing.T, order *ordering.Order) shared.DomainEvent {
	t.Helper()
	events := order.GetDomainEvents()
	require.NotEmpty(t, events)
	return events[len(events)-1]
}

func TestOrderProjectionHandler_OpensRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTrackingRepository)
	handler := NewOrderProjectionHandler(repo, zap.NewNop())
	order := newProjectionOrder(t)

	repo.On("FindByOrderID", ctx, order.ID).Return(nil, shared.ErrNotFound)
	repo.On("Save", ctx, mock.MatchedBy(func(record *tracking.Record) bool {
		return record.OrderID == order.ID &&
			record.OrderNumber == order.OrderNumber &&
			record.Status == tracking.StatusOrderCreated
	})).Return(nil)

	err := handler.Handle(ctx, lastEvent(t, order))

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestOrderProjectionHandler_IgnoresReplayedCreation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTrackingRepository)
	handler := NewOrderProjectionHandler(repo, zap.NewNop())
	order := newProjectionOrder(t)

	existing, err := tracking.NewRecord(order.ID, order.OrderNumber, order.CustomerID)
	require.NoError(t, err)
	repo.On("FindByOrderID", ctx, order.ID).Return(existing, nil)

	err = handler.Handle(ctx, lastEvent(t, order))

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderProjectionHandler_AdvancesTimeline(t *testing.T) {
	ctx := context.Background()

	t.Run("payment moves the timeline", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)
		order.ClearDomainEvents()
		require.NoError(t, order.MarkPaid())

		record, err := tracking.NewRecord(order.ID, order.OrderNumber, order.CustomerID)
		require.NoError(t, err)
		repo.On("FindByOrderID", ctx, order.ID).Return(record, nil)
		repo.On("Save", ctx, record).Return(nil)

		err = handler.Handle(ctx, lastEvent(t, order))

		require.NoError(t, err)
		assert.Equal(t, tracking.StatusPaymentReceived, record.Status)
		assert.Equal(t, "Payment received", record.LatestEvent().Description)
	})

	t.Run("completion maps to delivered", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.StartProcessing())
		require.NoError(t, order.Ship())
		require.NoError(t, order.Deliver())
		order.ClearDomainEvents()
		require.NoError(t, order.Complete())

		record, err := tracking.NewRecord(order.ID, order.OrderNumber, order.CustomerID)
		require.NoError(t, err)
		repo.On("FindByOrderID", ctx, order.ID).Return(record, nil)
		repo.On("Save", ctx, record).Return(nil)

		err = handler.Handle(ctx, lastEvent(t, order))

		require.NoError(t, err)
		assert.Equal(t, tracking.StatusDelivered, record.Status)
	})

	t.Run("missing record fails the handler", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)
		order.ClearDomainEvents()
		require.NoError(t, order.MarkPaid())

		repo.On("FindByOrderID", ctx, order.ID).Return(nil, shared.ErrNotFound)

		err := handler.Handle(ctx, lastEvent(t, order))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderProjectionHandler_OrderDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("drops the record with the order", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)

		repo.On("Delete", ctx, order.ID).Return(nil)

		err := handler.Handle(ctx, ordering.NewOrderDeletedEvent(order))

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("record that was never opened is fine", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)

		repo.On("Delete", ctx, order.ID).Return(shared.ErrNotFound)

		assert.NoError(t, handler.Handle(ctx, ordering.NewOrderDeletedEvent(order)))
	})

	t.Run("subscribes to deletion events", func(t *testing.T) {
		handler := NewOrderProjectionHandler(new(MockTrackingRepository), zap.NewNop())
		assert.Contains(t, handler.EventTypes(), ordering.EventTypeOrderDeleted)
	})
}

func TestOrderProjectionHandler_Cancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("cancellation reaches the timeline with its reason", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)
		order.ClearDomainEvents()
		require.NoError(t, order.Cancel("changed my mind"))

		record, err := tracking.NewRecord(order.ID, order.OrderNumber, order.CustomerID)
		require.NoError(t, err)
		repo.On("FindByOrderID", ctx, order.ID).Return(record, nil)
		repo.On("Save", ctx, record).Return(nil)

		// cancel raises a status change followed by the cancellation event
		for _, event := range order.GetDomainEvents() {
			require.NoError(t, handler.Handle(ctx, event))
		}

		assert.Equal(t, tracking.StatusCancelled, record.Status)
		assert.Equal(t, 0, record.Progress())
		assert.Contains(t, record.LatestEvent().Description, "changed my mind")
	})

	t.Run("refund is distinguished from cancellation", func(t *testing.T) {
		repo := new(MockTrackingRepository)
		handler := NewOrderProjectionHandler(repo, zap.NewNop())
		order := newProjectionOrder(t)
		require.NoError(t, order.MarkPaid())
		order.ClearDomainEvents()
		require.NoError(t, order.Refund(""))

		record, err := tracking.NewRecord(order.ID, order.OrderNumber, order.CustomerID)
		require.NoError(t, err)
		repo.On("FindByOrderID", ctx, order.ID).Return(record, nil)
		repo.On("Save", ctx, record).Return(nil)

		for _, event := range order.GetDomainEvents() {
			require.NoError(t, handler.Handle(ctx, event))
		}

		assert.Equal(t, tracking.StatusRefunded, record.Status)
	})
}
