package store

import (
	"context"
	"database/sql"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/google/uuid"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns ErrDuplicate if a category with the same name already exists.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// Update saves changes to an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category.
	// Returns ErrCategoryNotFound if the category does not exist and
	// ErrInvalidEntity if tasks still reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// WithTx returns a new CategoryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
