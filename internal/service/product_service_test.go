package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"catalog-service/internal/audit"
	"catalog-service/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newProductService(productRepo *MockProductRepository, categoryRepo *MockCategoryRepository) ProductService {
	return NewProductService(productRepo, categoryRepo, audit.NopPublisher{}, zerolog.Nop())
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.NewString()
	category := &model.Category{ID: categoryID, Name: "Window Intercoms"}

	validInput := func() model.ProductInput {
		return model.ProductInput{
			Name:       "QM300 Window Intercom",
			PCode:      "QM300",
			CategoryID: categoryID,
			Price:      "849.00",
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockProducts := new(MockProductRepository)
		mockCategories := new(MockCategoryRepository)
		service := newProductService(mockProducts, mockCategories)

		mockCategories.On("GetByID", ctx, categoryID).Return(category, nil)
		mockProducts.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

		product, err := service.Create(ctx, validInput())

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.NoError(t, uuid.Validate(product.ID))
		assert.Equal(t, "QM300 Window Intercom", product.Name)
		require.NotNil(t, product.CategoryID)
		assert.Equal(t, categoryID, *product.CategoryID)
		assert.Equal(t, 849.00, product.Price)
		mockProducts.AssertExpectations(t)
		mockCategories.AssertExpectations(t)
	})

	t.Run("Zero price is allowed", func(t *testing.T) {
		mockProducts := new(MockProductRepository)
		mockCategories := new(MockCategoryRepository)
		service := newProductService(mockProducts, mockCategories)

		mockCategories.On("GetByID", ctx, categoryID).Return(category, nil)
		mockProducts.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

		input := validInput()
		input.Price = "0"
		product, err := service.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, 0.0, product.Price)
	})

	validationTests := []struct {
		name          string
		mutate        func(*model.ProductInput)
		categoryFound bool
		expectedField string
		expectedMsg   string
	}{
		{
			name:          "Empty name",
			mutate:        func(i *model.ProductInput) { i.Name = "  " },
			categoryFound: true,
			expectedField: "name",
			expectedMsg:   "Name must be specified",
		},
		{
			name:          "Name too long",
			mutate:        func(i *model.ProductInput) { i.Name = strings.Repeat("x", model.MaxProductNameLength+1) },
			categoryFound: true,
			expectedField: "name",
			expectedMsg:   "Must be at most 100 characters",
		},
		{
			name:          "Empty category",
			mutate:        func(i *model.ProductInput) { i.CategoryID = "" },
			expectedField: "category",
			expectedMsg:   "Category must be selected",
		},
		{
			name:          "Malformed category reference",
			mutate:        func(i *model.ProductInput) { i.CategoryID = "not-a-uuid" },
			expectedField: "category",
			expectedMsg:   "Invalid category",
		},
		{
			name:          "Category does not exist",
			mutate:        func(i *model.ProductInput) {},
			categoryFound: false,
			expectedField: "category",
			expectedMsg:   "Category does not exist",
		},
		{
			name:          "Empty price",
			mutate:        func(i *model.ProductInput) { i.Price = "" },
			categoryFound: true,
			expectedField: "price",
			expectedMsg:   "Price must be specified",
		},
		{
			name:          "Negative price",
			mutate:        func(i *model.ProductInput) { i.Price = "-1" },
			categoryFound: true,
			expectedField: "price",
			expectedMsg:   "Price must be a positive number or 0",
		},
		{
			name:          "Non-numeric price",
			mutate:        func(i *model.ProductInput) { i.Price = "a lot" },
			categoryFound: true,
			expectedField: "price",
			expectedMsg:   "Price must be a positive number or 0",
		},
	}

	for _, tt := range validationTests {
		t.Run(tt.name, func(t *testing.T) {
			mockProducts := new(MockProductRepository)
			mockCategories := new(MockCategoryRepository)
			service := newProductService(mockProducts, mockCategories)

			input := validInput()
			tt.mutate(&input)

			if input.CategoryID == categoryID {
				if tt.categoryFound {
					mockCategories.On("GetByID", ctx, categoryID).Return(category, nil)
				} else {
					mockCategories.On("GetByID", ctx, categoryID).Return(nil, nil)
				}
			}

			product, err := service.Create(ctx, input)

			require.Error(t, err)
			assert.Nil(t, product)

			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Len(t, validationErr.Fields, 1)
			assert.Equal(t, tt.expectedField, validationErr.Fields[0].Field)
			assert.Equal(t, tt.expectedMsg, validationErr.Fields[0].Message)

			mockProducts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_LookupFailureIsNotValidation(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.NewString()

	mockProducts := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := newProductService(mockProducts, mockCategories)

	mockCategories.On("GetByID", ctx, categoryID).Return(nil, errors.New("connection refused"))

	product, err := service.Create(ctx, model.ProductInput{
		Name:       "QM300 Window Intercom",
		CategoryID: categoryID,
		Price:      "849.00",
	})

	require.Error(t, err)
	assert.Nil(t, product)

	var validationErr *model.ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestProductService_GetByCategory(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.NewString()
	category := &model.Category{ID: categoryID, Name: "Loop Systems"}

	tests := []struct {
		name          string
		categoryFound bool
		products      []model.Product
		expectedErr   error
		expectedLen   int
	}{
		{
			name:          "Success",
			categoryFound: true,
			products: []model.Product{
				{ID: "p1", Name: "LD100 Counter Loop Driver"},
			},
			expectedLen: 1,
		},
		{
			name:          "Empty category yields empty collection",
			categoryFound: true,
			products:      nil,
			expectedLen:   0,
		},
		{
			name:        "Category not found",
			expectedErr: model.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProducts := new(MockProductRepository)
			mockCategories := new(MockCategoryRepository)
			service := newProductService(mockProducts, mockCategories)

			if tt.categoryFound {
				mockCategories.On("GetByID", ctx, categoryID).Return(category, nil)
				mockProducts.On("GetByCategory", ctx, categoryID).Return(tt.products, nil)
			} else {
				mockCategories.On("GetByID", ctx, categoryID).Return(nil, nil)
			}

			products, err := service.GetByCategory(ctx, categoryID)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, products)
			assert.Len(t, products, tt.expectedLen)
		})
	}
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.NewString()
	category := &model.Category{ID: categoryID, Name: "Microphones"}

	t.Run("Success re-reads hydrated product", func(t *testing.T) {
		mockProducts := new(MockProductRepository)
		mockCategories := new(MockCategoryRepository)
		service := newProductService(mockProducts, mockCategories)

		existing := &model.Product{
			ID:        "p1",
			Name:      "Old Name",
			Price:     100,
			CreatedAt: time.Now().Add(-time.Hour),
		}
		hydrated := &model.Product{
			ID:       "p1",
			Name:     "GN30 Gooseneck Microphone",
			Price:    145,
			Category: category,
		}

		mockProducts.On("GetByID", ctx, "p1").Return(existing, nil).Once()
		mockCategories.On("GetByID", ctx, categoryID).Return(category, nil)
		mockProducts.On("Update", ctx, mock.AnythingOfType("*model.Product")).Return(nil)
		mockProducts.On("GetByID", ctx, "p1").Return(hydrated, nil).Once()

		product, err := service.Update(ctx, "p1", model.ProductInput{
			Name:       "GN30 Gooseneck Microphone",
			CategoryID: categoryID,
			Price:      "145",
		})

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "GN30 Gooseneck Microphone", product.Name)
		require.NotNil(t, product.Category)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Product not found", func(t *testing.T) {
		mockProducts := new(MockProductRepository)
		mockCategories := new(MockCategoryRepository)
		service := newProductService(mockProducts, mockCategories)

		mockProducts.On("GetByID", ctx, "missing").Return(nil, nil)

		product, err := service.Update(ctx, "missing", model.ProductInput{})

		require.Error(t, err)
		assert.Equal(t, model.ErrProductNotFound, err)
		assert.Nil(t, product)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		id          string
		repoErr     error
		expectedErr error
	}{
		{
			name: "Success",
			id:   "p1",
		},
		{
			name:        "Empty ID",
			id:          "",
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:        "Product not found",
			id:          "missing",
			repoErr:     model.ErrProductNotFound,
			expectedErr: model.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProducts := new(MockProductRepository)
			mockCategories := new(MockCategoryRepository)
			service := newProductService(mockProducts, mockCategories)

			if tt.id != "" {
				mockProducts.On("Delete", ctx, tt.id).Return(tt.repoErr)
			}

			err := service.Delete(ctx, tt.id)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
			} else {
				require.NoError(t, err)
			}

			mockProducts.AssertExpectations(t)
		})
	}
}
