package entities

import (
	"time"
)

// ReadingStatus tracks where a book sits in the reading lifecycle.
type ReadingStatus string

const (
	StatusNotStarted ReadingStatus = "not_started"
	StatusReading    ReadingStatus = "reading"
	StatusFinished   ReadingStatus = "finished"
)

// Valid reports whether the status is one of the known values.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusReading, StatusFinished:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category groups books for one owner. Name uniqueness is per owner,
// enforced by the composite index.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex:idx_category_name_user" json:"name"`
	UserID    uint      `gorm:"uniqueIndex:idx_category_name_user;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"index" json:"user_id"`
	User        User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Author      string        `gorm:"size:100" json:"author"`
	Link        string        `gorm:"size:500" json:"link"`
	FileName    string        `gorm:"size:255" json:"file_name"`
	CategoryID  *uint         `gorm:"index" json:"category_id"`
	Category    *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Status      ReadingStatus `gorm:"size:20;default:not_started" json:"status"`
	TotalPages  *int          `json:"total_pages"`
	CurrentPage int           `gorm:"default:0" json:"current_page"`
	StartDate   *time.Time    `json:"start_date"`
	FinishDate  *time.Time    `json:"finish_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProgressPercent returns the reading progress as a whole percentage,
// clamped to 0..100. ok is false when no page total is known, in which
// case no percentage should be shown.
func (b *Book) ProgressPercent() (percent int, ok bool) {
	if b.TotalPages == nil || *b.TotalPages <= 0 {
		return 0, false
	}
	percent = b.CurrentPage * 100 / *b.TotalPages
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent, true
}

// HasFile reports whether an uploaded file is attached to the book.
func (b *Book) HasFile() bool {
	return b.FileName != ""
}

// CategoryName returns the preloaded category name or an empty string.
func (b *Book) CategoryName() string {
	if b.Category == nil {
		return ""
	}
	return b.Category.Name
}
