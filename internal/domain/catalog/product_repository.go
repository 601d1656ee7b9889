package catalog

import (
	"context"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindAvailable finds all products currently on sale
	FindAvailable(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products in a category
	FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// IncrementViews atomically increments the product view counter
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// IncrementSales atomically adds qty to the product sales counter
	IncrementSales(ctx context.Context, id uuid.UUID, qty int) error

	// DecrementStock atomically subtracts qty from stock.
	// It must fail with shared.ErrInsufficientStock when fewer than qty
	// units remain, leaving the row untouched.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// RestoreStock atomically adds qty back to stock
	RestoreStock(ctx context.Context, id uuid.UUID, qty int) error
}
