package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Category
var (
	ErrEmptyCategoryID   = errors.New("category ID cannot be empty")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
)

// Category is a label grouping tasks of a similar kind (errands, tutoring,
// gardening, ...). Categories are managed by admins and referenced by tasks.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory creates a new Category with the given name and description.
// Returns an error if validation fails.
func NewCategory(name, description string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}

	if c.Name == "" {
		return ErrEmptyCategoryName
	}

	return nil
}
