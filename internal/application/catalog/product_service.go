package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedImageTypes lists the content types accepted for product images
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or a local stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectURL returns the public URL of a stored object
	ObjectURL(storageKey string) string
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, storage ObjectStorageService, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storage:     storage,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Category, req.Brand, req.Model, req.Specifications, req.StockQuantity)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product and counts the view. The view counter is
// bumped atomically in the database so concurrent reads never lose
// increments; a failed bump does not fail the read.
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.IncrementViews(ctx, productID); err == nil {
		product.ViewsCount++
	} else {
		s.logger.Warn("Failed to count product view", zap.String("product_id", productID.String()), zap.Error(err))
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination. The storefront
// passes AvailableOnly; admin screens see everything.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.buildFilter(filter)

	var (
		products []catalog.Product
		err      error
	)
	if filter.AvailableOnly {
		products, err = s.productRepo.FindAvailable(ctx, domainFilter)
	} else {
		products, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// ListByCategory retrieves products in a category
func (s *ProductService) ListByCategory(ctx context.Context, category string, filter ProductListFilter) ([]ProductResponse, int64, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	domainFilter := s.buildFilter(filter)
	domainFilter.Filters["category"] = category

	products, err := s.productRepo.FindByCategory(ctx, category, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update updates a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Category, req.Brand, req.Model, req.Specifications); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdatePrice changes a product's price
func (s *ProductService) UpdatePrice(ctx context.Context, productID uuid.UUID, req UpdateProductPriceRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateStock sets a product's stock level
func (s *ProductService) UpdateStock(ctx context.Context, productID uuid.UUID, req UpdateProductStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetStock(req.StockQuantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate puts a product on sale
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.toggle(ctx, productID, true)
}

// Deactivate takes a product off sale. Existing orders are unaffected.
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.toggle(ctx, productID, false)
}

func (s *ProductService) toggle(ctx context.Context, productID uuid.UUID, available bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if available {
		product.Activate()
	} else {
		product.Deactivate()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// RequestImageUpload issues a presigned upload URL for a product image
// and registers the resulting public URL on the product.
func (s *ProductService) RequestImageUpload(ctx context.Context, productID uuid.UUID, contentType string) (*ImageUploadResponse, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_TYPE", "Content type "+contentType+" is not an accepted image type")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	storageKey := path.Join("products", productID.String(), fmt.Sprintf("%s%s", uuid.New().String(), ext))
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, 15*time.Minute)
	if err != nil {
		return nil, err
	}

	imageURL := s.storage.ObjectURL(storageKey)
	if err := product.AddImage(imageURL); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL: uploadURL,
		ImageURL:  imageURL,
		ExpiresAt: expiresAt,
	}, nil
}

// RemoveImage detaches an image from the product and deletes the object
// from storage when it lives under this product's key prefix.
func (s *ProductService) RemoveImage(ctx context.Context, productID uuid.UUID, imageURL string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RemoveImage(imageURL); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	prefix := s.storage.ObjectURL(path.Join("products", productID.String())) + "/"
	if strings.HasPrefix(imageURL, prefix) {
		// best effort, the image is already unlinked
		if err := s.storage.DeleteObject(ctx, strings.TrimPrefix(imageURL, s.storage.ObjectURL("")+"/")); err != nil {
			s.logger.Warn("Failed to delete product image object", zap.String("image_url", imageURL), zap.Error(err))
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) buildFilter(filter ProductListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = strings.ToLower(strings.TrimSpace(filter.Category))
	}
	if filter.Brand != "" {
		domainFilter.Filters["brand"] = filter.Brand
	}
	if filter.AvailableOnly {
		domainFilter.Filters["is_available"] = true
	}
	if filter.InStockOnly {
		domainFilter.Filters["in_stock"] = true
	}
	return domainFilter
}
