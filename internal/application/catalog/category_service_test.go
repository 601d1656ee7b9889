package catalog

import (
	"context"
	"testing"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func newCategoryServiceFixture() (*CategoryService, *MockCategoryRepository) {
	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	return NewCategoryService(categoryRepo, productRepo), categoryRepo
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates category with normalized slug", func(t *testing.T) {
		service, repo := newCategoryServiceFixture()

		repo.On("ExistsBySlug", ctx, "laptops").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := service.Create(ctx, CreateCategoryRequest{Slug: " Laptops ", Name: "Laptops", SortOrder: 5})

		require.NoError(t, err)
		assert.Equal(t, "laptops", resp.Slug)
		assert.Equal(t, 5, resp.SortOrder)
		assert.True(t, resp.Active)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		service, repo := newCategoryServiceFixture()

		repo.On("ExistsBySlug", ctx, "laptops").Return(true, nil)

		_, err := service.Create(ctx, CreateCategoryRequest{Slug: "laptops", Name: "Laptops"})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid slug charset", func(t *testing.T) {
		service, repo := newCategoryServiceFixture()

		repo.On("ExistsBySlug", ctx, "gaming laptops!").Return(false, nil)

		_, err := service.Create(ctx, CreateCategoryRequest{Slug: "Gaming Laptops!", Name: "Gaming"})

		require.Error(t, err)
	})
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	service, repo := newCategoryServiceFixture()

	phones, err := catalog.NewCategory("phones", "Phones", "")
	require.NoError(t, err)

	expected := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.OrderBy == "sort_order" && filter.OrderDir == "asc"
	})
	repo.On("FindAll", ctx, expected).Return([]catalog.Category{*phones}, nil)

	responses, err := service.List(ctx)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "phones", responses[0].Slug)
}

func TestCategoryService_UpdateAndToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("updates name and ordering", func(t *testing.T) {
		service, repo := newCategoryServiceFixture()
		category, err := catalog.NewCategory("phones", "Phones", "")
		require.NoError(t, err)

		repo.On("FindByID", ctx, category.ID).Return(category, nil)
		repo.On("Save", ctx, category).Return(nil)

		resp, err := service.Update(ctx, category.ID, UpdateCategoryRequest{Name: "Smartphones", SortOrder: 2})

		require.NoError(t, err)
		assert.Equal(t, "Smartphones", resp.Name)
		assert.Equal(t, 2, resp.SortOrder)
	})

	t.Run("deactivate hides the category", func(t *testing.T) {
		service, repo := newCategoryServiceFixture()
		category, err := catalog.NewCategory("phones", "Phones", "")
		require.NoError(t, err)

		repo.On("FindByID", ctx, category.ID).Return(category, nil)
		repo.On("Save", ctx, category).Return(nil)

		resp, err := service.Deactivate(ctx, category.ID)

		require.NoError(t, err)
		assert.False(t, resp.Active)
	})

	t.Run("not found", func(t *testing.T) {
		service, repo := newCategoryServiceFixture()
		categoryID := uuid.New()

		repo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, categoryID, UpdateCategoryRequest{Name: "X"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
