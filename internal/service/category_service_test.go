package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-service/internal/audit"
	"catalog-service/internal/config"
	"catalog-service/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteGuarded(ctx context.Context, id string) ([]model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCategoryRepository) DeleteCascade(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func newCategoryService(repo *MockCategoryRepository, policy string) CategoryService {
	return NewCategoryService(repo, policy, audit.NopPublisher{}, zerolog.Nop())
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		input          model.CategoryInput
		existingByName *model.Category
		expectCreate   bool
		expectedName   string
		expectedSlug   string
		expectedFields []model.FieldError
	}{
		{
			name:         "Success derives slug from name",
			input:        model.CategoryInput{Name: "Window Intercoms", Description: "Counter units"},
			expectCreate: true,
			expectedName: "Window Intercoms",
			expectedSlug: "window-intercoms",
		},
		{
			name:         "Name is trimmed before slug derivation",
			input:        model.CategoryInput{Name: "  Loop   Systems  "},
			expectCreate: true,
			expectedName: "Loop   Systems",
			expectedSlug: "loop-systems",
		},
		{
			name:  "Empty name",
			input: model.CategoryInput{Name: "   "},
			expectedFields: []model.FieldError{
				{Field: "name", Message: "Name must be specified"},
			},
		},
		{
			name:           "Duplicate name",
			input:          model.CategoryInput{Name: "Microphones"},
			existingByName: &model.Category{ID: "other", Name: "Microphones"},
			expectedFields: []model.FieldError{
				{Field: "name", Message: "Category name already exists"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			service := newCategoryService(mockRepo, config.DeletePolicyGuard)

			if tt.expectedName != "" || tt.existingByName != nil {
				mockRepo.On("GetByName", ctx, mock.Anything).
					Return(tt.existingByName, nil)
			}
			if tt.expectCreate {
				mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Category")).
					Return(nil)
			}

			category, err := service.Create(ctx, tt.input)

			if tt.expectedFields != nil {
				require.Error(t, err)
				var validationErr *model.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.expectedFields, validationErr.Fields)
				assert.Nil(t, category)
			} else {
				require.NoError(t, err)
				require.NotNil(t, category)
				assert.Equal(t, tt.expectedName, category.Name)
				assert.Equal(t, tt.expectedSlug, category.Slug)
				assert.NoError(t, uuid.Validate(category.ID))
				assert.False(t, category.CreatedAt.IsZero())
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Create_ConflictFromStore(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	service := newCategoryService(mockRepo, config.DeletePolicyGuard)

	// The pre-check passes but a concurrent writer wins the race; the
	// unique index violation surfaces as a ConflictError.
	mockRepo.On("GetByName", ctx, "Microphones").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Category")).
		Return(model.NewConflictError("name"))

	category, err := service.Create(ctx, model.CategoryInput{Name: "Microphones"})

	require.Error(t, err)
	var conflictErr *model.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "name", conflictErr.Field)
	assert.Nil(t, category)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	// existingCategory returns a fresh copy per test; Update mutates the
	// record it loads.
	existingCategory := func() *model.Category {
		return &model.Category{
			ID:        "c1",
			Name:      "Old Name",
			Slug:      "old-name",
			CreatedAt: time.Now().Add(-time.Hour),
			UpdatedAt: time.Now().Add(-time.Hour),
		}
	}

	tests := []struct {
		name           string
		id             string
		input          model.CategoryInput
		found          bool
		existingByName *model.Category
		expectUpdate   bool
		expectedSlug   string
		expectedErr    error
		expectedFields []model.FieldError
	}{
		{
			name:         "Success recomputes slug from new name",
			id:           "c1",
			input:        model.CategoryInput{Name: "New Loop Systems"},
			found:        true,
			expectUpdate: true,
			expectedSlug: "new-loop-systems",
		},
		{
			name:           "Category keeps its own name",
			id:             "c1",
			input:          model.CategoryInput{Name: "Old Name"},
			found:          true,
			existingByName: existingCategory(),
			expectUpdate:   true,
			expectedSlug:   "old-name",
		},
		{
			name:        "Category not found",
			id:          "missing",
			input:       model.CategoryInput{Name: "Anything"},
			expectedErr: model.ErrCategoryNotFound,
		},
		{
			name:           "Name taken by another category",
			id:             "c1",
			input:          model.CategoryInput{Name: "Taken"},
			found:          true,
			existingByName: &model.Category{ID: "c2", Name: "Taken"},
			expectedFields: []model.FieldError{
				{Field: "name", Message: "Category name already exists"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			service := newCategoryService(mockRepo, config.DeletePolicyGuard)

			if tt.found {
				mockRepo.On("GetByID", ctx, tt.id).Return(existingCategory(), nil)
				mockRepo.On("GetByName", ctx, mock.Anything).Return(tt.existingByName, nil)
			} else {
				mockRepo.On("GetByID", ctx, tt.id).Return(nil, nil)
			}
			if tt.expectUpdate {
				mockRepo.On("Update", ctx, mock.AnythingOfType("*model.Category")).Return(nil)
			}

			category, err := service.Update(ctx, tt.id, tt.input)

			switch {
			case tt.expectedErr != nil:
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
			case tt.expectedFields != nil:
				var validationErr *model.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.expectedFields, validationErr.Fields)
			default:
				require.NoError(t, err)
				require.NotNil(t, category)
				assert.Equal(t, tt.expectedSlug, category.Slug)
				assert.True(t, category.UpdatedAt.After(category.CreatedAt))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Delete_Guard(t *testing.T) {
	ctx := context.Background()

	blocking := []model.Product{
		{ID: "p1", Name: "QM300 Window Intercom"},
		{ID: "p2", Name: "QM200 Compact Window Unit"},
	}

	tests := []struct {
		name            string
		id              string
		blockedBy       []model.Product
		repoErr         error
		expectedDeleted bool
		expectedErr     bool
	}{
		{
			name:            "Delete succeeds when no products reference the category",
			id:              "c1",
			blockedBy:       []model.Product{},
			expectedDeleted: true,
		},
		{
			name:      "Delete blocked by referencing products",
			id:        "c1",
			blockedBy: blocking,
		},
		{
			name:        "Category not found",
			id:          "missing",
			repoErr:     model.ErrCategoryNotFound,
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			service := newCategoryService(mockRepo, config.DeletePolicyGuard)

			mockRepo.On("DeleteGuarded", ctx, tt.id).Return(tt.blockedBy, tt.repoErr)

			result, err := service.Delete(ctx, tt.id)

			if tt.expectedErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedDeleted, result.Deleted)
			if !tt.expectedDeleted {
				assert.Equal(t, tt.blockedBy, result.BlockedBy)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Delete_Cascade(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCategoryRepository)
	service := newCategoryService(mockRepo, config.DeletePolicyCascade)

	mockRepo.On("DeleteCascade", ctx, "c1").Return(int64(3), nil)

	result, err := service.Delete(ctx, "c1")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Deleted)
	assert.Equal(t, int64(3), result.Detached)
	assert.Empty(t, result.BlockedBy)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		id          string
		mockReturn  *model.Category
		mockError   error
		expectedErr error
	}{
		{
			name:       "Success",
			id:         "c1",
			mockReturn: &model.Category{ID: "c1", Name: "Microphones"},
		},
		{
			name:        "Category not found",
			id:          "missing",
			expectedErr: model.ErrCategoryNotFound,
		},
		{
			name:        "Empty ID",
			id:          "",
			expectedErr: model.ErrCategoryNotFound,
		},
		{
			name:        "Repository error",
			id:          "c1",
			mockError:   errors.New("database error"),
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			service := newCategoryService(mockRepo, config.DeletePolicyGuard)

			if tt.id != "" {
				mockRepo.On("GetByID", ctx, tt.id).Return(tt.mockReturn, tt.mockError)
			}

			category, err := service.GetByID(ctx, tt.id)

			switch {
			case tt.expectedErr != nil:
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
			case tt.mockError != nil:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, category)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
