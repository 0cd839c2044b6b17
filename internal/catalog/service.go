// Package catalog implements the library operations behind the web UI:
// listing, adding, editing and deleting books, category management,
// reading-progress updates and aggregate statistics.
//
// All operations are owner-scoped. The acting user's ID is threaded
// through to the repositories, whose owner predicate is the only access
// control in the system.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/database/categories"
	"github.com/bookmaster/bookmaster/internal/entities"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

// Upload carries an incoming file attachment through to the store.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// AddBookInput holds the fields accepted when creating a book.
// Reading status is not among them: new books always start as
// not started, regardless of caller input.
type AddBookInput struct {
	Title      string
	Author     string
	Link       string
	CategoryID *uint
	TotalPages *int
	File       *Upload
}

// EditBookInput holds the metadata fields accepted on edit.
// Progress fields (status, pages, dates) have a separate write path.
type EditBookInput struct {
	Title      string
	Author     string
	Link       string
	CategoryID *uint
}

// ProgressInput holds the reading-progress fields. Omitted dates are
// auto-filled on the first transition into the matching status.
type ProgressInput struct {
	Status      entities.ReadingStatus
	CurrentPage int
	TotalPages  *int
	StartDate   *time.Time
	FinishDate  *time.Time
}

// BookService provides book catalog operations for the web handlers.
type BookService struct {
	books      *books.Repository
	categories *categories.Repository
	files      *uploads.Store
}

// NewBookService creates a new book catalog service.
func NewBookService(booksRepo *books.Repository, categoriesRepo *categories.Repository, files *uploads.Store) *BookService {
	return &BookService{
		books:      booksRepo,
		categories: categoriesRepo,
		files:      files,
	}
}

// List returns the user's books narrowed by the filter.
func (s *BookService) List(userID uint, filter books.Filter) ([]entities.Book, error) {
	items, err := s.books.List(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return items, nil
}

// Get retrieves a single book owned by the user.
func (s *BookService) Get(userID, bookID uint) (*entities.Book, error) {
	book, err := s.books.GetByID(bookID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// Add validates and stores a new book, saving the attached file first
// if one was supplied. The new book's status is forced to not started.
func (s *BookService) Add(userID uint, in AddBookInput) (*entities.Book, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}

	categoryID, err := s.resolveCategory(userID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	var fileName string
	if in.File != nil {
		fileName, err = s.files.Save(in.File.Filename, in.File.Size, in.File.Reader)
		if err != nil {
			return nil, err
		}
	}

	book := &entities.Book{
		UserID:     userID,
		Title:      in.Title,
		Author:     in.Author,
		Link:       in.Link,
		FileName:   fileName,
		CategoryID: categoryID,
		Status:     entities.StatusNotStarted,
		TotalPages: in.TotalPages,
	}

	if err := s.books.Create(book); err != nil {
		// The row never existed, so remove the file we just stored.
		if fileName != "" {
			if rmErr := s.files.Remove(fileName); rmErr != nil {
				log.Printf("WARNING: could not remove orphaned upload %s: %v", fileName, rmErr)
			}
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}

// Edit updates a book's metadata. Progress fields are untouched.
func (s *BookService) Edit(userID, bookID uint, in EditBookInput) error {
	if in.Title == "" {
		return ErrTitleRequired
	}

	categoryID, err := s.resolveCategory(userID, in.CategoryID)
	if err != nil {
		return err
	}

	rows, err := s.books.UpdateDetails(bookID, userID, in.Title, in.Author, in.Link, categoryID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if rows == 0 {
		return ErrBookNotFound
	}
	return nil
}

// UpdateProgress overwrites a book's reading progress. Start and finish
// dates are stamped with the current date on the first transition into
// "reading" and "finished" respectively, unless the caller supplied one;
// dates already on the book are never cleared by omission.
func (s *BookService) UpdateProgress(userID, bookID uint, in ProgressInput) error {
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}

	book, err := s.Get(userID, bookID)
	if err != nil {
		return err
	}

	startDate := in.StartDate
	if startDate == nil {
		startDate = book.StartDate
	}
	finishDate := in.FinishDate
	if finishDate == nil {
		finishDate = book.FinishDate
	}

	if in.Status == entities.StatusReading && startDate == nil {
		now := today()
		startDate = &now
	}
	if in.Status == entities.StatusFinished && finishDate == nil {
		now := today()
		finishDate = &now
	}

	rows, err := s.books.UpdateProgress(bookID, userID, in.Status, in.CurrentPage, in.TotalPages, startDate, finishDate)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	if rows == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes a book and its attached file. A failed file removal is
// logged, not fatal: the row is already gone and the sweep will catch
// the leftover.
func (s *BookService) Delete(userID, bookID uint) error {
	book, err := s.Get(userID, bookID)
	if err != nil {
		return err
	}

	rows, err := s.books.Delete(bookID, userID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if rows == 0 {
		return ErrBookNotFound
	}

	if book.HasFile() {
		if err := s.files.Remove(book.FileName); err != nil {
			log.Printf("WARNING: could not remove file %s for deleted book %d: %v", book.FileName, bookID, err)
		}
	}

	return nil
}

// FilePath resolves the on-disk path and original stored name of a
// book's attachment for download.
func (s *BookService) FilePath(userID, bookID uint) (path, storedName string, err error) {
	book, err := s.Get(userID, bookID)
	if err != nil {
		return "", "", err
	}
	if !book.HasFile() {
		return "", "", ErrNoAttachedFile
	}

	path, err = s.files.Path(book.FileName)
	if err != nil {
		return "", "", err
	}
	return path, book.FileName, nil
}

// resolveCategory verifies that a requested category belongs to the user.
// A nil ID means "no category" and passes through.
func (s *BookService) resolveCategory(userID uint, categoryID *uint) (*uint, error) {
	if categoryID == nil {
		return nil, nil
	}
	_, err := s.categories.GetByID(*categoryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	return categoryID, nil
}

// today returns the current date truncated to midnight UTC, matching
// the date-only columns.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
