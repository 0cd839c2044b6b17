// Package users provides database operations for user accounts.
package users

import (
	"gorm.io/gorm"

	"github.com/bookmaster/bookmaster/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new user with an already-hashed password.
func (r *Repository) Create(username, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a username is already taken.
func (r *Repository) Exists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Delete removes a user and all rows owned by them. Attached files are not
// touched here; the caller is responsible for cleaning up uploads.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entities.Book{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.User{}, id).Error
	})
}
