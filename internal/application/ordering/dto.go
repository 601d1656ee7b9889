package ordering

import (
	"time"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// ShippingAddressInput carries the delivery destination for an order
type ShippingAddressInput struct {
	Recipient  string `json:"recipient" binding:"required,min=1,max=200"`
	Phone      string `json:"phone" binding:"max=50"`
	Street     string `json:"street" binding:"required,min=1,max=300"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

func (a ShippingAddressInput) toDomain() ordering.ShippingAddress {
	return ordering.ShippingAddress{
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// CreateOrderItemInput is a direct order line. Name and price are
// resolved from the catalog, never trusted from the client.
type CreateOrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest places an order. With FromCart set the selected
// cart lines are used and Items must be empty; otherwise Items are
// bought directly.
type CreateOrderRequest struct {
	FromCart        bool                   `json:"from_cart"`
	Items           []CreateOrderItemInput `json:"items" binding:"omitempty,dive"`
	ShippingAddress ShippingAddressInput   `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	Notes           string                 `json:"notes" binding:"max=500"`
}

// UpdateOrderStatusRequest moves an order to a new lifecycle status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for order lists. The date
// bounds are inclusive against the order's creation time.
type OrderListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     *string    `form:"status"`
	Archived   *bool      `form:"archived"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Response DTOs ====================

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Image       string          `json:"image,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Items           []OrderItemResponse `json:"items"`
	ItemCount       int                 `json:"item_count"`
	TotalQuantity   int                 `json:"total_quantity"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"payment_method"`
	DeliveryMethod  string              `json:"delivery_method"`
	ShippingAddress ShippingAddressInput `json:"shipping_address"`
	Notes           string              `json:"notes,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	Archived        bool                `json:"archived"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderStatusSummary represents order counts per status
type OrderStatusSummary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
			Image:       item.Image,
		}
	}

	return OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		Items:          items,
		ItemCount:      order.ItemCount(),
		TotalQuantity:  order.TotalQuantity(),
		Subtotal:       order.Subtotal,
		Tax:            order.Tax,
		ShippingFee:    order.ShippingFee,
		Total:          order.Total,
		Status:         order.Status.String(),
		PaymentMethod:  string(order.PaymentMethod),
		DeliveryMethod: string(order.DeliveryMethod),
		ShippingAddress: ShippingAddressInput{
			Recipient:  order.ShippingAddress.Recipient,
			Phone:      order.ShippingAddress.Phone,
			Street:     order.ShippingAddress.Street,
			City:       order.ShippingAddress.City,
			State:      order.ShippingAddress.State,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		Notes:        order.Notes,
		PaidAt:       order.PaidAt,
		ShippedAt:    order.ShippedAt,
		DeliveredAt:  order.DeliveredAt,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		Archived:     order.Archived,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
