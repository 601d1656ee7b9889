package shopping

import (
	"time"

	"github.com/awestore/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// AddCartItemRequest puts a product into the cart. Adding a product
// that is already in the cart merges the quantities.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes a line's quantity. Zero removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// UpdateSelectionRequest toggles whether a line participates in checkout
type UpdateSelectionRequest struct {
	Selected bool `json:"selected"`
}

// SelectAllRequest toggles the selection of every line at once
type SelectAllRequest struct {
	Selected bool `json:"selected"`
}

// ==================== Response DTOs ====================

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Selected    bool            `json:"selected"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Image       string          `json:"image,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartSummaryResponse is the priced view of the selected lines
type CartSummaryResponse struct {
	TotalItems    int             `json:"total_items"`
	SelectedItems int             `json:"selected_items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Total         decimal.Decimal `json:"total"`
}

// CartResponse represents a customer's cart in API responses
type CartResponse struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID uuid.UUID           `json:"customer_id"`
	Items      []CartItemResponse  `json:"items"`
	Summary    CartSummaryResponse `json:"summary"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ToCartResponse converts a domain cart to a response DTO
func ToCartResponse(cart *shopping.Cart) CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Selected:    item.Selected,
			LineTotal:   item.LineTotal(),
			Image:       item.Image,
			UpdatedAt:   item.UpdatedAt,
		}
	}

	summary := cart.Summary()
	return CartResponse{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		Items:      items,
		Summary: CartSummaryResponse{
			TotalItems:    summary.TotalItems,
			SelectedItems: summary.SelectedItems,
			Subtotal:      summary.Subtotal,
			Tax:           summary.Tax,
			ShippingFee:   summary.ShippingFee,
			Total:         summary.Total,
		},
		UpdatedAt: cart.UpdatedAt,
	}
}
