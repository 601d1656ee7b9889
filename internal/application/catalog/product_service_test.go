package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, category, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementSales(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectURL(storageKey string) string {
	args := m.Called(storageKey)
	return args.String(0)
}

func newProductServiceFixture() (*ProductService, *MockProductRepository, *MockObjectStorage) {
	repo := new(MockProductRepository)
	storage := new(MockObjectStorage)
	return NewProductService(repo, storage, zap.NewNop()), repo, storage
}

func newStoredProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("ThinkBook 14", "14 inch laptop", decimal.NewFromFloat(899.00), "Laptops", "Lenovo", "TB14", map[string]string{"ram": "16GB"}, 25)
	require.NoError(t, err)
	return product
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with normalized category", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			Name:          "ThinkBook 14",
			Price:         decimal.NewFromFloat(899.00),
			Category:      "Laptops",
			StockQuantity: 25,
		})

		require.NoError(t, err)
		assert.Equal(t, "laptops", resp.Category)
		assert.True(t, resp.IsAvailable)
		assert.True(t, resp.InStock)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()

		_, err := service.Create(ctx, CreateProductRequest{
			Name:     "Freebie",
			Price:    decimal.Zero,
			Category: "misc",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("counts the view", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		product := newStoredProduct(t)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("IncrementViews", ctx, product.ID).Return(nil)

		resp, err := service.GetByID(ctx, product.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ViewsCount)
	})

	t.Run("read survives a failed view bump and logs it", func(t *testing.T) {
		repo := new(MockProductRepository)
		core, recorded := observer.New(zapcore.WarnLevel)
		service := NewProductService(repo, new(MockObjectStorage), zap.New(core))
		product := newStoredProduct(t)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("IncrementViews", ctx, product.ID).Return(assert.AnError)

		resp, err := service.GetByID(ctx, product.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.ViewsCount)

		entries := recorded.FilterMessage("Failed to count product view").All()
		require.Len(t, entries, 1)
		assert.Equal(t, product.ID.String(), entries[0].ContextMap()["product_id"])
	})

	t.Run("not found", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		productID := uuid.New()

		repo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(ctx, productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("storefront listing only sees available products", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		product := newStoredProduct(t)

		repo.On("FindAvailable", ctx, mock.AnythingOfType("shared.Filter")).Return([]catalog.Product{*product}, nil)
		repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

		responses, total, err := service.List(ctx, ProductListFilter{AvailableOnly: true})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, responses, 1)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("admin listing sees everything", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()

		repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return([]catalog.Product{}, nil)
		repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

		_, _, err := service.List(ctx, ProductListFilter{})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "FindAvailable", mock.Anything, mock.Anything)
	})

	t.Run("category filter is normalized", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()

		expected := mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["category"] == "laptops"
		})
		repo.On("FindByCategory", ctx, "laptops", expected).Return([]catalog.Product{}, nil)
		repo.On("Count", ctx, expected).Return(int64(0), nil)

		_, _, err := service.ListByCategory(ctx, "  Laptops ", ProductListFilter{})

		require.NoError(t, err)
	})
}

func TestProductService_StockAndPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("updates stock", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		product := newStoredProduct(t)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		resp, err := service.UpdateStock(ctx, product.ID, UpdateProductStockRequest{StockQuantity: 3})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.StockQuantity)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		product := newStoredProduct(t)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := service.UpdateStock(ctx, product.ID, UpdateProductStockRequest{StockQuantity: -1})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("price is rounded to cents", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()
		product := newStoredProduct(t)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		resp, err := service.UpdatePrice(ctx, product.ID, UpdateProductPriceRequest{Price: decimal.NewFromFloat(19.999)})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(20.00).Equal(resp.Price))
	})
}

func TestProductService_ImageUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("issues presigned URL and links the image", func(t *testing.T) {
		service, repo, storage := newProductServiceFixture()
		product := newStoredProduct(t)
		expiresAt := time.Now().Add(15 * time.Minute)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)
		storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/png", 15*time.Minute).
			Return("https://s3.test/upload", expiresAt, nil)
		storage.On("ObjectURL", mock.AnythingOfType("string")).
			Return("https://cdn.test/products/img.png")

		resp, err := service.RequestImageUpload(ctx, product.ID, "image/png")

		require.NoError(t, err)
		assert.Equal(t, "https://s3.test/upload", resp.UploadURL)
		assert.Equal(t, "https://cdn.test/products/img.png", resp.ImageURL)
		assert.Contains(t, product.Images, "https://cdn.test/products/img.png")
	})

	t.Run("rejects non-image content type", func(t *testing.T) {
		service, repo, _ := newProductServiceFixture()

		_, err := service.RequestImageUpload(ctx, uuid.New(), "application/pdf")

		require.Error(t, err)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
