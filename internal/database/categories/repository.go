// Package categories provides owner-scoped database operations for
// book categories.
//
// Every method takes the owning user's ID and must never be called
// without it: the owner predicate is the only access control in the
// system.
package categories

import (
	"gorm.io/gorm"

	"github.com/bookmaster/bookmaster/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns all categories owned by userID, ordered by name.
func (r *Repository) ListForUser(userID uint) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category only if it belongs to userID.
func (r *Repository) GetByID(id, userID uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Exists reports whether userID already has a category with this name.
// The check is case-sensitive, matching the unique index.
func (r *Repository) Exists(name string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Category{}).
		Where("name = ? AND user_id = ?", name, userID).
		Count(&count).Error
	return count > 0, err
}

// Create stores a new category for userID.
func (r *Repository) Create(name string, userID uint) (*entities.Category, error) {
	category := &entities.Category{
		Name:   name,
		UserID: userID,
	}
	if err := r.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category owned by userID and clears the category
// reference on its books. Books themselves are never deleted.
// Returns the number of category rows removed.
func (r *Repository) Delete(id, userID uint) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// SQLite only enforces ON DELETE SET NULL when foreign keys are
		// enabled on the connection, so null the references explicitly.
		err := tx.Model(&entities.Book{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Category{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// CountBooks returns how many of userID's books are in the category.
func (r *Repository) CountBooks(categoryID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error
	return count, err
}
