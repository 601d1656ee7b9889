package models

import (
	"time"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
// Shipping address fields are flattened into the row.
type OrderModel struct {
	AggregateModel
	OrderNumber    string                 `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Items          []OrderItemModel       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal       decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Tax            decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	ShippingFee    decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Total          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Status         ordering.OrderStatus   `gorm:"type:varchar(20);not null;index"`
	PaymentMethod  ordering.PaymentMethod `gorm:"type:varchar(30);not null"`
	DeliveryMethod pricing.DeliveryMethod `gorm:"type:varchar(20);not null"`
	Recipient      string                 `gorm:"type:varchar(100);not null"`
	Phone          string                 `gorm:"type:varchar(50)"`
	Street         string                 `gorm:"type:varchar(200);not null"`
	City           string                 `gorm:"type:varchar(100);not null"`
	State          string                 `gorm:"type:varchar(100)"`
	PostalCode     string                 `gorm:"type:varchar(20)"`
	Country        string                 `gorm:"type:varchar(100)"`
	Notes          string                 `gorm:"type:text"`
	PaidAt         *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
	Archived       bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Image       string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *ordering.Order {
	items := make([]ordering.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, ordering.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
			Image:       item.Image,
		})
	}

	return &ordering.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		Items:             items,
		Subtotal:          m.Subtotal,
		Tax:               m.Tax,
		ShippingFee:       m.ShippingFee,
		Total:             m.Total,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		DeliveryMethod:    m.DeliveryMethod,
		ShippingAddress: ordering.ShippingAddress{
			Recipient:  m.Recipient,
			Phone:      m.Phone,
			Street:     m.Street,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Notes:        m.Notes,
		PaidAt:       m.PaidAt,
		ShippedAt:    m.ShippedAt,
		DeliveredAt:  m.DeliveredAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		Archived:     m.Archived,
	}
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.ShippingFee = o.ShippingFee
	m.Total = o.Total
	m.Status = o.Status
	m.PaymentMethod = o.PaymentMethod
	m.DeliveryMethod = o.DeliveryMethod
	m.Recipient = o.ShippingAddress.Recipient
	m.Phone = o.ShippingAddress.Phone
	m.Street = o.ShippingAddress.Street
	m.City = o.ShippingAddress.City
	m.State = o.ShippingAddress.State
	m.PostalCode = o.ShippingAddress.PostalCode
	m.Country = o.ShippingAddress.Country
	m.Notes = o.Notes
	m.PaidAt = o.PaidAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Archived = o.Archived

	m.Items = make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
			Image:       item.Image,
		})
	}
}
