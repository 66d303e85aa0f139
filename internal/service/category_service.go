package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/platform/logger"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// CategoryServiceError is a custom error type for category service errors.
type CategoryServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CategoryServiceError.
func (e *CategoryServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("category service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("category service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CategoryServiceError) Unwrap() error {
	return e.Err
}

// CategoryService manages the closed set of task categories. Reads are open
// to everyone; writes require the admin role.
type CategoryService interface {
	// CreateCategory adds a new category. Admin only.
	CreateCategory(ctx context.Context, callerID uuid.UUID, name, description string) (*domain.Category, error)

	// GetCategory retrieves a category by ID.
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	// UpdateCategory edits a category's name or description. Admin only.
	// Nil fields are left unchanged.
	UpdateCategory(ctx context.Context, callerID, id uuid.UUID, name, description *string) (*domain.Category, error)

	// DeleteCategory removes an unused category. Admin only; refused while
	// tasks still reference it.
	DeleteCategory(ctx context.Context, callerID, id uuid.UUID) error
}

// categoryServiceImpl implements the CategoryService interface.
type categoryServiceImpl struct {
	categoryStore store.CategoryStore
	authz         participation.AuthorizationPolicy
	logger        *slog.Logger
}

var _ CategoryService = (*categoryServiceImpl)(nil)

// NewCategoryService creates a new CategoryService.
// It returns an error if any of the required dependencies are nil.
func NewCategoryService(
	categoryStore store.CategoryStore,
	authz participation.AuthorizationPolicy,
	log *slog.Logger,
) (CategoryService, error) {
	if categoryStore == nil {
		return nil, domain.NewValidationError("categoryStore", "cannot be nil", domain.ErrValidation)
	}
	if authz == nil {
		return nil, domain.NewValidationError("authz", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &categoryServiceImpl{
		categoryStore: categoryStore,
		authz:         authz,
		logger:        log.With(slog.String("component", "category_service")),
	}, nil
}

// CreateCategory implements CategoryService.CreateCategory.
func (s *categoryServiceImpl) CreateCategory(
	ctx context.Context,
	callerID uuid.UUID,
	name, description string,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	category, err := domain.NewCategory(name, description)
	if err != nil {
		return nil, err
	}

	if err := s.categoryStore.Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, store.ErrDuplicate
		}
		return nil, &CategoryServiceError{Operation: "create", Message: "failed to save category", Err: err}
	}

	log.Info("category created",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))
	return category, nil
}

// GetCategory implements CategoryService.GetCategory.
func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, &CategoryServiceError{Operation: "get", Message: "failed to load category", Err: err}
	}
	return category, nil
}

// ListCategories implements CategoryService.ListCategories.
func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryStore.List(ctx)
	if err != nil {
		return nil, &CategoryServiceError{Operation: "list", Message: "failed to list categories", Err: err}
	}
	return categories, nil
}

// UpdateCategory implements CategoryService.UpdateCategory.
func (s *categoryServiceImpl) UpdateCategory(
	ctx context.Context,
	callerID, id uuid.UUID,
	name, description *string,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	category, err := s.categoryStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, &CategoryServiceError{Operation: "update", Message: "failed to load category", Err: err}
	}

	if name != nil {
		category.Name = *name
	}
	if description != nil {
		category.Description = *description
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categoryStore.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, store.ErrDuplicate
		case errors.Is(err, store.ErrCategoryNotFound):
			return nil, store.ErrCategoryNotFound
		default:
			return nil, &CategoryServiceError{Operation: "update", Message: "failed to save category", Err: err}
		}
	}

	log.Info("category updated", slog.String("category_id", category.ID.String()))
	return category, nil
}

// DeleteCategory implements CategoryService.DeleteCategory.
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, callerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	if err := s.categoryStore.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			return store.ErrCategoryNotFound
		case errors.Is(err, store.ErrInvalidEntity):
			// Foreign key violation: tasks still reference the category.
			return ErrCategoryInUse
		default:
			return &CategoryServiceError{Operation: "delete", Message: "failed to delete category", Err: err}
		}
	}

	log.Info("category deleted", slog.String("category_id", id.String()))
	return nil
}

func (s *categoryServiceImpl) requireAdmin(ctx context.Context, callerID uuid.UUID) error {
	admin, err := s.authz.HasRole(ctx, callerID, domain.RoleAdmin)
	if err != nil {
		return &CategoryServiceError{Operation: "authorize", Message: "failed to check caller role", Err: err}
	}
	if !admin {
		return ErrForbidden
	}
	return nil
}
