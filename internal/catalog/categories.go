package catalog

import (
	"fmt"

	"github.com/bookmaster/bookmaster/internal/database/categories"
	"github.com/bookmaster/bookmaster/internal/entities"
)

// CategoryWithCount pairs a category with the number of the owner's
// books assigned to it, for the categories page.
type CategoryWithCount struct {
	entities.Category
	BookCount int64
}

// CategoryService provides category operations for the web handlers.
type CategoryService struct {
	categories *categories.Repository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoriesRepo *categories.Repository) *CategoryService {
	return &CategoryService{categories: categoriesRepo}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(userID uint) ([]entities.Category, error) {
	items, err := s.categories.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// ListWithCounts returns the user's categories with per-category book counts.
func (s *CategoryService) ListWithCounts(userID uint) ([]CategoryWithCount, error) {
	items, err := s.categories.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	result := make([]CategoryWithCount, 0, len(items))
	for _, category := range items {
		count, err := s.categories.CountBooks(category.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("count books in category %d: %w", category.ID, err)
		}
		result = append(result, CategoryWithCount{Category: category, BookCount: count})
	}
	return result, nil
}

// Add creates a category for the user. Names are unique per owner,
// case-sensitively; the same name is fine for a different owner.
func (s *CategoryService) Add(userID uint, name string) (*entities.Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	exists, err := s.categories.Exists(name, userID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category, err := s.categories.Create(name, userID)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Delete removes a user's category. Books that referenced it keep
// existing with their category reference cleared.
func (s *CategoryService) Delete(userID, categoryID uint) error {
	rows, err := s.categories.Delete(categoryID, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if rows == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
