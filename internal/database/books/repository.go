// Package books provides owner-scoped database operations for books.
//
// Every method takes the owning user's ID and must never be called
// without it: the owner predicate is the only access control in the
// system.
package books

import (
	"time"

	"gorm.io/gorm"

	"github.com/bookmaster/bookmaster/internal/entities"
)

// Filter narrows a book listing. Zero-valued fields are ignored;
// the remaining predicates compose with AND.
type Filter struct {
	CategoryID *uint
	Status     entities.ReadingStatus
	Query      string // case-insensitive substring match on title or author
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns userID's books matching the filter, ordered by ID
// ascending (stable insertion order).
func (r *Repository) List(userID uint, filter Filter) ([]entities.Book, error) {
	query := r.db.Preload("Category").Where("user_id = ?", userID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}

	var books []entities.Book
	err := query.Order("id ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a book only if it belongs to userID.
func (r *Repository) GetByID(id, userID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Category").Where("id = ? AND user_id = ?", id, userID).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create stores a new book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// UpdateDetails updates the editable metadata fields of a book owned by
// userID. Reading progress columns are untouched. Returns the number of
// rows updated; zero means the book does not exist or is not owned.
func (r *Repository) UpdateDetails(id, userID uint, title, author, link string, categoryID *uint) (int64, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"title":       title,
			"author":      author,
			"link":        link,
			"category_id": categoryID,
		})
	return result.RowsAffected, result.Error
}

// UpdateProgress overwrites the reading-progress columns of a book owned
// by userID. Metadata fields are untouched. Returns the number of rows
// updated.
func (r *Repository) UpdateProgress(id, userID uint, status entities.ReadingStatus, currentPage int, totalPages *int, startDate, finishDate *time.Time) (int64, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"status":       status,
			"current_page": currentPage,
			"total_pages":  totalPages,
			"start_date":   startDate,
			"finish_date":  finishDate,
		})
	return result.RowsAffected, result.Error
}

// Delete removes a book owned by userID. Returns the number of rows removed.
func (r *Repository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Book{})
	return result.RowsAffected, result.Error
}

// CountByStatus returns userID's book counts keyed by reading status.
func (r *Repository) CountByStatus(userID uint) (map[entities.ReadingStatus]int64, error) {
	type row struct {
		Status entities.ReadingStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&entities.Book{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.ReadingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// RecentlyFinished returns up to limit finished books for userID,
// most recent finish date first. Books without a finish date are excluded.
func (r *Repository) RecentlyFinished(userID uint, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND status = ? AND finish_date IS NOT NULL", userID, entities.StatusFinished).
		Order("finish_date DESC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// AllFileNames returns every stored file name referenced by any book.
// Used by the upload sweep to identify orphaned files on disk.
func (r *Repository) AllFileNames() ([]string, error) {
	var names []string
	err := r.db.Model(&entities.Book{}).
		Where("file_name <> ''").
		Pluck("file_name", &names).Error
	return names, err
}
