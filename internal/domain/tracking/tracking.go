package tracking

import (
	"time"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/pricing"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrackingStatus represents a stop on the shipment timeline
type TrackingStatus string

const (
	StatusOrderCreated    TrackingStatus = "order_created"
	StatusPaymentReceived TrackingStatus = "payment_received"
	StatusOrderConfirmed  TrackingStatus = "order_confirmed"
	StatusProcessing      TrackingStatus = "processing"
	StatusPacked          TrackingStatus = "packed"
	StatusShipped         TrackingStatus = "shipped"
	StatusInTransit       TrackingStatus = "in_transit"
	StatusOutForDelivery  TrackingStatus = "out_for_delivery"
	StatusDelivered       TrackingStatus = "delivered"
	StatusCancelled       TrackingStatus = "cancelled"
	StatusRefunded        TrackingStatus = "refunded"
)

// IsValid checks if the status is a known tracking status
func (s TrackingStatus) IsValid() bool {
	switch s {
	case StatusOrderCreated, StatusPaymentReceived, StatusOrderConfirmed, StatusProcessing,
		StatusPacked, StatusShipped, StatusInTransit, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of TrackingStatus
func (s TrackingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the shipment timeline has ended
func (s TrackingStatus) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Progress returns the completion percentage for the status.
// Cancelled and refunded shipments report zero.
func (s TrackingStatus) Progress() int {
	switch s {
	case StatusOrderCreated:
		return 10
	case StatusPaymentReceived:
		return 20
	case StatusOrderConfirmed:
		return 30
	case StatusProcessing:
		return 40
	case StatusPacked:
		return 50
	case StatusShipped:
		return 60
	case StatusInTransit:
		return 80
	case StatusOutForDelivery:
		return 90
	case StatusDelivered:
		return 100
	}
	return 0
}

// deliveryOffsets maps each in-flight status to the expected remaining
// transit time. Unknown statuses fall back to the full window.
var deliveryOffsets = map[TrackingStatus]time.Duration{
	StatusOrderCreated:    7 * 24 * time.Hour,
	StatusPaymentReceived: 6 * 24 * time.Hour,
	StatusOrderConfirmed:  5 * 24 * time.Hour,
	StatusProcessing:      4 * 24 * time.Hour,
	StatusPacked:          3 * 24 * time.Hour,
	StatusShipped:         2 * 24 * time.Hour,
	StatusInTransit:       24 * time.Hour,
	StatusOutForDelivery:  12 * time.Hour,
}

const defaultDeliveryOffset = 7 * 24 * time.Hour

// StatusForOrder projects an order lifecycle status onto the timeline
func StatusForOrder(status ordering.OrderStatus) TrackingStatus {
	switch status {
	case ordering.OrderStatusPending:
		return StatusOrderCreated
	case ordering.OrderStatusPaid:
		return StatusPaymentReceived
	case ordering.OrderStatusProcessing:
		return StatusProcessing
	case ordering.OrderStatusShipped:
		return StatusShipped
	case ordering.OrderStatusDelivered, ordering.OrderStatusCompleted:
		return StatusDelivered
	case ordering.OrderStatusCancelled:
		return StatusCancelled
	case ordering.OrderStatusRefunded:
		return StatusRefunded
	}
	return StatusOrderCreated
}

// TrackingEvent is a single entry on the shipment timeline
type TrackingEvent struct {
	ID          uuid.UUID
	RecordID    uuid.UUID
	Status      TrackingStatus
	Description string
	Location    string
	OccurredAt  time.Time
}

// Record is the per-order shipment tracking projection.
// It is derived from order lifecycle events and never drives them.
type Record struct {
	shared.BaseAggregateRoot
	OrderID     uuid.UUID
	OrderNumber string
	CustomerID  uuid.UUID
	Status      TrackingStatus
	Carrier     string
	Events      []TrackingEvent
}

// NewRecord opens a tracking record for a freshly placed order
func NewRecord(orderID uuid.UUID, orderNumber string, customerID uuid.UUID) (*Record, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}

	record := &Record{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Status:            StatusOrderCreated,
	}
	record.Events = []TrackingEvent{{
		ID:          uuid.New(),
		RecordID:    record.ID,
		Status:      StatusOrderCreated,
		Description: "Order placed",
		OccurredAt:  record.CreatedAt,
	}}

	return record, nil
}

// AppendStatus moves the shipment to a new status and logs an event.
// Re-appending the current status without a new description is a no-op,
// so replayed order events do not duplicate timeline entries.
func (r *Record) AppendStatus(status TrackingStatus, description, location string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown tracking status")
	}
	if status == r.Status && description == "" {
		return nil
	}

	now := time.Now()
	r.Status = status
	r.Events = append(r.Events, TrackingEvent{
		ID:          uuid.New(),
		RecordID:    r.ID,
		Status:      status,
		Description: description,
		Location:    location,
		OccurredAt:  now,
	})
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// SetCarrier records the carrier handling the shipment
func (r *Record) SetCarrier(carrier string) {
	r.Carrier = carrier
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// EstimatedDelivery returns the expected delivery time counted from when
// the order was placed, or nil once the timeline has ended.
func (r *Record) EstimatedDelivery() *time.Time {
	if r.Status.IsTerminal() {
		return nil
	}

	offset, ok := deliveryOffsets[r.Status]
	if !ok {
		offset = defaultDeliveryOffset
	}
	estimate := r.CreatedAt.Add(offset)
	return &estimate
}

// Estimate is the delivery forecast served on the public estimate lookup
type Estimate struct {
	Days   int
	Date   time.Time
	Method pricing.DeliveryMethod
}

// DeliveryEstimate forecasts the remaining transit window from the
// current status. The method label thresholds on the remaining days,
// so it tightens as the shipment advances. Statuses off the in-flight
// ladder fall back to the full window.
func (r *Record) DeliveryEstimate(now time.Time) Estimate {
	offset, ok := deliveryOffsets[r.Status]
	if !ok {
		offset = defaultDeliveryOffset
	}

	days := offset.Hours() / 24
	return Estimate{
		Days:   int(days),
		Date:   now.Add(offset),
		Method: pricing.DeliveryMethodForTransit(days),
	}
}

// Progress returns the completion percentage of the shipment
func (r *Record) Progress() int {
	return r.Status.Progress()
}

// LatestEvent returns the most recent timeline entry, or nil
func (r *Record) LatestEvent() *TrackingEvent {
	if len(r.Events) == 0 {
		return nil
	}
	return &r.Events[len(r.Events)-1]
}
