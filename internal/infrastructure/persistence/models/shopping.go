package models

import (
	"time"

	"github.com/awestore/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for the Cart aggregate.
// One row per customer.
type CartModel struct {
	AggregateModel
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is the persistence model for a cart line.
type CartItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Selected    bool            `gorm:"not null;default:true"`
	Image       string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart aggregate.
func (m *CartModel) ToDomain() *shopping.Cart {
	items := make([]shopping.CartItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, shopping.CartItem{
			ID:          item.ID,
			CartID:      item.CartID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Selected:    item.Selected,
			Image:       item.Image,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}

	return &shopping.Cart{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Items:             items,
	}
}

// FromDomain populates the persistence model from a domain Cart aggregate.
func (m *CartModel) FromDomain(c *shopping.Cart) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CustomerID = c.CustomerID

	m.Items = make([]CartItemModel, 0, len(c.Items))
	for _, item := range c.Items {
		m.Items = append(m.Items, CartItemModel{
			ID:          item.ID,
			CartID:      item.CartID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Selected:    item.Selected,
			Image:       item.Image,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}
}
