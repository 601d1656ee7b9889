package catalog

import (
	"time"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required,min=1,max=200"`
	Description    string            `json:"description" binding:"max=2000"`
	Price          decimal.Decimal   `json:"price" binding:"required"`
	Category       string            `json:"category" binding:"required,min=1,max=100"`
	Brand          string            `json:"brand" binding:"max=100"`
	Model          string            `json:"model" binding:"max=100"`
	Specifications map[string]string `json:"specifications"`
	StockQuantity  int               `json:"stock_quantity" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           string            `json:"name" binding:"required,min=1,max=200"`
	Description    string            `json:"description" binding:"max=2000"`
	Category       string            `json:"category" binding:"required,min=1,max=100"`
	Brand          string            `json:"brand" binding:"max=100"`
	Model          string            `json:"model" binding:"max=100"`
	Specifications map[string]string `json:"specifications"`
}

// UpdateProductPriceRequest represents a request to change a product's price
type UpdateProductPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// UpdateProductStockRequest represents a request to set a product's stock level
type UpdateProductStockRequest struct {
	StockQuantity int `json:"stock_quantity" binding:"min=0"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Search        string `form:"search"`
	Category      string `form:"category"`
	Brand         string `form:"brand"`
	AvailableOnly bool   `form:"available_only"`
	InStockOnly   bool   `form:"in_stock_only"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Slug        string `json:"slug" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	SortOrder   int    `json:"sort_order"`
}

// ==================== Response DTOs ====================

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Price          decimal.Decimal   `json:"price"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand,omitempty"`
	Model          string            `json:"model,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Images         []string          `json:"images"`
	StockQuantity  int               `json:"stock_quantity"`
	InStock        bool              `json:"in_stock"`
	IsAvailable    bool              `json:"is_available"`
	ViewsCount     int64             `json:"views_count"`
	SalesCount     int64             `json:"sales_count"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageUploadResponse carries a presigned upload URL for a product image
type ImageUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	ImageURL  string    `json:"image_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		Category:       product.Category,
		Brand:          product.Brand,
		Model:          product.Model,
		Specifications: product.Specifications,
		Images:         images,
		StockQuantity:  product.StockQuantity,
		InStock:        product.InStock(),
		IsAvailable:    product.IsAvailable,
		ViewsCount:     product.ViewsCount,
		SalesCount:     product.SalesCount,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Slug:        category.Slug,
		Name:        category.Name,
		Description: category.Description,
		SortOrder:   category.SortOrder,
		Active:      category.Active,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
