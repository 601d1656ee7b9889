package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/tracking"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusDescriptions are the storefront-facing texts written onto the
// timeline for each projected stop.
var statusDescriptions = map[tracking.TrackingStatus]string{
	tracking.StatusPaymentReceived: "Payment received",
	tracking.StatusProcessing:      "Order is being prepared",
	tracking.StatusShipped:         "Package handed to carrier",
	tracking.StatusDelivered:       "Package delivered",
	tracking.StatusCancelled:       "Order cancelled",
	tracking.StatusRefunded:        "Order refunded",
}

// OrderProjectionHandler keeps the shipment tracking projection in sync
// with order lifecycle events. It is best effort: a failed projection
// update is logged by the bus and never fails the order operation that
// caused it.
type OrderProjectionHandler struct {
	trackingRepo tracking.Repository
	logger       *zap.Logger
}

// NewOrderProjectionHandler creates a new handler for order events
func NewOrderProjectionHandler(trackingRepo tracking.Repository, logger *zap.Logger) *OrderProjectionHandler {
	return &OrderProjectionHandler{
		trackingRepo: trackingRepo,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderProjectionHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderCreated,
		ordering.EventTypeOrderStatusChanged,
		ordering.EventTypeOrderCancelled,
		ordering.EventTypeOrderDeleted,
	}
}

// Handle processes an order lifecycle event
func (h *OrderProjectionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderCreatedEvent:
		return h.handleCreated(ctx, e)
	case *ordering.OrderStatusChangedEvent:
		status := tracking.StatusForOrder(e.ToStatus)
		return h.append(ctx, e.OrderID, status, statusDescriptions[status], "")
	case *ordering.OrderCancelledEvent:
		if e.Reason == "" {
			// the status change already put the stop on the timeline
			return nil
		}
		return h.appendReason(ctx, e)
	case *ordering.OrderDeletedEvent:
		return h.handleDeleted(ctx, e)
	default:
		h.logger.Error("unexpected event type on tracking projection",
			zap.String("event_type", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *OrderProjectionHandler) handleCreated(ctx context.Context, event *ordering.OrderCreatedEvent) error {
	existing, err := h.trackingRepo.FindByOrderID(ctx, event.OrderID)
	if err == nil && existing != nil {
		// replayed event, record already open
		return nil
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	record, err := tracking.NewRecord(event.OrderID, event.OrderNumber, event.CustomerID)
	if err != nil {
		return err
	}

	if err := h.trackingRepo.Save(ctx, record); err != nil {
		h.logger.Error("failed to open tracking record",
			zap.String("order_id", event.OrderID.String()),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("tracking record opened",
		zap.String("order_id", event.OrderID.String()),
		zap.String("order_number", event.OrderNumber),
	)
	return nil
}

// handleDeleted closes the record for a hard-deleted order so the
// public lookup stops serving it. A record that was never opened is
// nothing to clean up.
func (h *OrderProjectionHandler) handleDeleted(ctx context.Context, event *ordering.OrderDeletedEvent) error {
	if err := h.trackingRepo.Delete(ctx, event.OrderID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		h.logger.Error("failed to drop tracking record for deleted order",
			zap.String("order_id", event.OrderID.String()),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("tracking record dropped with deleted order",
		zap.String("order_id", event.OrderID.String()),
		zap.String("order_number", event.OrderNumber),
	)
	return nil
}

// appendReason adds the cancellation reason behind the stop the status
// change already wrote.
func (h *OrderProjectionHandler) appendReason(ctx context.Context, event *ordering.OrderCancelledEvent) error {
	record, err := h.trackingRepo.FindByOrderID(ctx, event.OrderID)
	if err != nil {
		return err
	}

	description := statusDescriptions[record.Status] + ": " + event.Reason
	if err := record.AppendStatus(record.Status, description, ""); err != nil {
		return err
	}
	return h.trackingRepo.Save(ctx, record)
}

func (h *OrderProjectionHandler) append(ctx context.Context, orderID uuid.UUID, status tracking.TrackingStatus, description, location string) error {
	record, err := h.trackingRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		h.logger.Error("tracking record missing for order event",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return err
	}

	if err := record.AppendStatus(status, description, location); err != nil {
		return err
	}

	if err := h.trackingRepo.Save(ctx, record); err != nil {
		h.logger.Error("failed to advance tracking record",
			zap.String("order_id", orderID.String()),
			zap.String("status", status.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
