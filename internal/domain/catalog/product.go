package catalog

import (
	"strings"
	"time"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the store catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	Name           string
	Description    string
	Price          decimal.Decimal
	Category       string
	Brand          string
	Model          string
	Specifications map[string]string
	Images         []string
	StockQuantity  int
	IsAvailable    bool
	ViewsCount     int64
	SalesCount     int64
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, category, brand, model string, specifications map[string]string, stockQuantity int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}
	if stockQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	if specifications == nil {
		specifications = make(map[string]string)
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price.Round(2),
		Category:          strings.ToLower(category),
		Brand:             brand,
		Model:             model,
		Specifications:    specifications,
		Images:            make([]string, 0),
		StockQuantity:     stockQuantity,
		IsAvailable:       true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive information
func (p *Product) Update(name, description, category, brand, model string, specifications map[string]string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Category = strings.ToLower(category)
	p.Brand = brand
	p.Model = model
	if specifications != nil {
		p.Specifications = specifications
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}

	p.Price = price.Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetStock replaces the stock quantity with an absolute value
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Activate makes the product visible and purchasable
func (p *Product) Activate() {
	if p.IsAvailable {
		return
	}
	p.IsAvailable = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	if !p.IsAvailable {
		return
	}
	p.IsAvailable = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductDeactivatedEvent(p))
}

// AddImage appends an image URL to the product gallery
func (p *Product) AddImage(url string) error {
	if url == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}
	for _, existing := range p.Images {
		if existing == url {
			return shared.ErrAlreadyExists
		}
	}

	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveImage removes an image URL from the product gallery
func (p *Product) RemoveImage(url string) error {
	for idx, existing := range p.Images {
		if existing == url {
			p.Images = append(p.Images[:idx], p.Images[idx+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// CanFulfill reports whether the product can satisfy an order for qty units
func (p *Product) CanFulfill(qty int) bool {
	return p.IsAvailable && qty > 0 && p.StockQuantity >= qty
}

// InStock reports whether any stock remains
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
