package tracking

import (
	"time"

	"github.com/awestore/backend/internal/domain/tracking"
	"github.com/google/uuid"
)

// ==================== Request DTOs ====================

// AppendTrackingEventRequest adds a carrier update to the timeline
type AppendTrackingEventRequest struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description" binding:"max=500"`
	Location    string `json:"location" binding:"max=200"`
}

// SetCarrierRequest assigns the shipping carrier
type SetCarrierRequest struct {
	Carrier string `json:"carrier" binding:"required,min=1,max=100"`
}

// ==================== Response DTOs ====================

// TrackingEventResponse is a single entry on the shipment timeline
type TrackingEventResponse struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// TrackingResponse represents a shipment timeline in API responses
type TrackingResponse struct {
	ID                uuid.UUID               `json:"id"`
	OrderID           uuid.UUID               `json:"order_id"`
	OrderNumber       string                  `json:"order_number"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	Status            string                  `json:"status"`
	Progress          int                     `json:"progress"`
	Carrier           string                  `json:"carrier,omitempty"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	Events            []TrackingEventResponse `json:"events"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// DeliveryEstimateResponse is the payload of the delivery estimate lookup
type DeliveryEstimateResponse struct {
	OrderNumber           string    `json:"order_number"`
	Status                string    `json:"status"`
	EstimatedDays         int       `json:"estimated_days"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
	ShippingMethod        string    `json:"shipping_method"`
}

// ToDeliveryEstimateResponse converts a domain forecast to a response DTO
func ToDeliveryEstimateResponse(record *tracking.Record, estimate tracking.Estimate) DeliveryEstimateResponse {
	return DeliveryEstimateResponse{
		OrderNumber:           record.OrderNumber,
		Status:                record.Status.String(),
		EstimatedDays:         estimate.Days,
		EstimatedDeliveryDate: estimate.Date,
		ShippingMethod:        string(estimate.Method),
	}
}

// ToTrackingResponse converts a domain record to a response DTO
func ToTrackingResponse(record *tracking.Record) TrackingResponse {
	events := make([]TrackingEventResponse, len(record.Events))
	for i, event := range record.Events {
		events[i] = TrackingEventResponse{
			ID:          event.ID,
			Status:      event.Status.String(),
			Description: event.Description,
			Location:    event.Location,
			OccurredAt:  event.OccurredAt,
		}
	}

	return TrackingResponse{
		ID:                record.ID,
		OrderID:           record.OrderID,
		OrderNumber:       record.OrderNumber,
		CustomerID:        record.CustomerID,
		Status:            record.Status.String(),
		Progress:          record.Progress(),
		Carrier:           record.Carrier,
		EstimatedDelivery: record.EstimatedDelivery(),
		Events:            events,
		UpdatedAt:         record.UpdatedAt,
	}
}
