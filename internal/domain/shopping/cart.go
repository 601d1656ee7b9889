package shopping

import (
	"time"

	"github.com/awestore/backend/internal/domain/pricing"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem represents a single product line in a cart.
// Name, price and image are snapshots taken when the line was added.
type CartItem struct {
	ID          uuid.UUID
	CartID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Selected    bool
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineTotal returns unit price times quantity
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per-customer shopping cart aggregate root
type Cart struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	Items      []CartItem
}

// CartSummary is the priced view of the currently selected lines
type CartSummary struct {
	TotalItems    int
	SelectedItems int
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	ShippingFee   decimal.Decimal
	Total         decimal.Decimal
}

// NewCart creates an empty cart for a customer
func NewCart(customerID uuid.UUID) (*Cart, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddItem adds a product line to the cart. Adding a product that is
// already in the cart merges the quantities. New lines start selected.
func (c *Cart) AddItem(productID uuid.UUID, productName, image string, unitPrice decimal.Decimal, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = now
			c.touch(now)
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:          uuid.New(),
		CartID:      c.ID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice.Round(2),
		Quantity:    quantity,
		Selected:    true,
		Image:       image,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	c.touch(now)

	return nil
}

// UpdateQuantity sets the quantity of an existing line.
// A quantity of zero removes the line.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity == 0 {
		return c.RemoveItem(productID)
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			now := time.Now()
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = now
			c.touch(now)
			return nil
		}
	}

	return shared.ErrNotFound
}

// UpdateSelection marks a line as selected or unselected for checkout
func (c *Cart) UpdateSelection(productID uuid.UUID, selected bool) error {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			now := time.Now()
			c.Items[idx].Selected = selected
			c.Items[idx].UpdatedAt = now
			c.touch(now)
			return nil
		}
	}

	return shared.ErrNotFound
}

// SelectAll sets the selection flag on every line
func (c *Cart) SelectAll(selected bool) {
	now := time.Now()
	for idx := range c.Items {
		c.Items[idx].Selected = selected
		c.Items[idx].UpdatedAt = now
	}
	c.touch(now)
}

// RemoveItem removes a product line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.touch(time.Now())
			return nil
		}
	}

	return shared.ErrNotFound
}

// Clear removes every line from the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.touch(time.Now())
}

// RemoveSelected removes the selected lines, typically after checkout
func (c *Cart) RemoveSelected() {
	remaining := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if !item.Selected {
			remaining = append(remaining, item)
		}
	}
	c.Items = remaining
	c.touch(time.Now())
}

// SelectedItems returns the lines marked for checkout
func (c *Cart) SelectedItems() []CartItem {
	selected := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected
}

// Item returns the line for a product, or nil
func (c *Cart) Item(productID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Summary prices the selected lines with the checkout formula
func (c *Cart) Summary() CartSummary {
	subtotal := decimal.Zero
	selectedCount := 0
	for _, item := range c.Items {
		if item.Selected {
			subtotal = subtotal.Add(item.LineTotal())
			selectedCount++
		}
	}

	quote := pricing.NewQuote(subtotal)

	return CartSummary{
		TotalItems:    len(c.Items),
		SelectedItems: selectedCount,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		ShippingFee:   quote.ShippingFee,
		Total:         quote.Total,
	}
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.IncrementVersion()
}
