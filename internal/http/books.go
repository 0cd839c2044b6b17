package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/catalog"
	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/entities"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

// bookView decorates a book with template-friendly progress fields.
type bookView struct {
	entities.Book
	Percent     int
	Pages       int
	HasProgress bool
}

func newBookView(book entities.Book) bookView {
	view := bookView{Book: book}
	view.Percent, view.HasProgress = book.ProgressPercent()
	if book.TotalPages != nil {
		view.Pages = *book.TotalPages
	}
	return view
}

// BooksController handles the book pages: listing, add/edit forms,
// progress updates, deletion and attachment download.
type BooksController struct {
	books      *catalog.BookService
	categories *catalog.CategoryService
	sessions   *auth.SessionManager
}

// NewBooksController creates a new books controller.
func NewBooksController(bookService *catalog.BookService, categoryService *catalog.CategoryService, sessions *auth.SessionManager) *BooksController {
	return &BooksController{
		books:      bookService,
		categories: categoryService,
		sessions:   sessions,
	}
}

// ListBooks renders the books page, narrowed by the optional
// q/category/status query parameters.
func (bc *BooksController) ListBooks(c *gin.Context) {
	userID := GetUserID(c)

	filter := books.Filter{Query: strings.TrimSpace(c.Query("q"))}
	filter.CategoryID = parseOptionalUint(c.Query("category"))
	if raw := c.Query("status"); raw != "" {
		if status := entities.ReadingStatus(raw); status.Valid() {
			filter.Status = status
		}
	}

	items, err := bc.books.List(userID, filter)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", "Error loading books", "/")
		return
	}

	categories, err := bc.categories.List(userID)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", "Error loading categories", "/")
		return
	}

	views := make([]bookView, 0, len(items))
	for _, book := range items {
		views = append(views, newBookView(book))
	}

	var selectedCategory uint
	if filter.CategoryID != nil {
		selectedCategory = *filter.CategoryID
	}

	render(c, bc.sessions, "books", gin.H{
		"Title":            "All Books - Book Master",
		"Books":            views,
		"Categories":       categories,
		"TotalBooks":       len(views),
		"SearchQuery":      filter.Query,
		"SelectedCategory": selectedCategory,
		"SelectedStatus":   string(filter.Status),
	})
}

// AddBookPage renders the add-book form.
func (bc *BooksController) AddBookPage(c *gin.Context) {
	userID := GetUserID(c)

	categories, err := bc.categories.List(userID)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", "Error loading categories", "/books")
		return
	}

	render(c, bc.sessions, "add_book", gin.H{
		"Title":      "Add Book - Book Master",
		"Categories": categories,
	})
}

// AddBook handles the add-book form submission, including the optional
// file attachment.
func (bc *BooksController) AddBook(c *gin.Context) {
	userID := GetUserID(c)

	input := catalog.AddBookInput{
		Title:      strings.TrimSpace(c.PostForm("title")),
		Author:     strings.TrimSpace(c.PostForm("author")),
		Link:       strings.TrimSpace(c.PostForm("link")),
		CategoryID: parseOptionalUint(c.PostForm("category_id")),
		TotalPages: parseOptionalInt(c.PostForm("total_pages")),
	}

	header, err := c.FormFile("file")
	switch {
	case err == nil && header.Filename != "":
		file, openErr := header.Open()
		if openErr != nil {
			redirectWithFlash(c, bc.sessions, "error", "Could not read the uploaded file", "/add_book")
			return
		}
		defer file.Close()
		input.File = &catalog.Upload{Filename: header.Filename, Size: header.Size, Reader: file}
	case err != nil && !errors.Is(err, http.ErrMissingFile):
		// The body-limit reader cuts off oversized multipart bodies.
		redirectWithFlash(c, bc.sessions, "error", "File is too large (max 50MB)", "/add_book")
		return
	}

	book, err := bc.books.Add(userID, input)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", addBookErrorMessage(err), "/add_book")
		return
	}

	redirectWithFlash(c, bc.sessions, "success", fmt.Sprintf("Book %q added successfully!", book.Title), "/books")
}

func addBookErrorMessage(err error) string {
	switch {
	case errors.Is(err, catalog.ErrTitleRequired):
		return "Book title is required"
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, uploads.ErrExtensionNotAllowed):
		return "File type is not allowed"
	case errors.Is(err, uploads.ErrFileTooLarge):
		return "File is too large (max 50MB)"
	}
	return "Error adding book"
}

// EditBookPage renders the edit form for a book's metadata.
func (bc *BooksController) EditBookPage(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, bc.sessions, "id", "/books")
	if !ok {
		return
	}

	book, err := bc.books.Get(userID, bookID)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", "Book not found", "/books")
		return
	}

	categories, err := bc.categories.List(userID)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", "Error loading categories", "/books")
		return
	}

	var selectedCategoryID uint
	if book.CategoryID != nil {
		selectedCategoryID = *book.CategoryID
	}

	render(c, bc.sessions, "edit_book", gin.H{
		"Title":              "Edit Book - Book Master",
		"Book":               book,
		"Categories":         categories,
		"SelectedCategoryID": selectedCategoryID,
	})
}

// EditBook handles the edit-book form submission. Only metadata is
// written; reading progress has its own form.
func (bc *BooksController) EditBook(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, bc.sessions, "id", "/books")
	if !ok {
		return
	}

	input := catalog.EditBookInput{
		Title:      strings.TrimSpace(c.PostForm("title")),
		Author:     strings.TrimSpace(c.PostForm("author")),
		Link:       strings.TrimSpace(c.PostForm("link")),
		CategoryID: parseOptionalUint(c.PostForm("category_id")),
	}

	err := bc.books.Edit(userID, bookID, input)
	switch {
	case errors.Is(err, catalog.ErrTitleRequired):
		redirectWithFlash(c, bc.sessions, "error", "Book title is required", fmt.Sprintf("/edit_book/%d", bookID))
	case errors.Is(err, catalog.ErrBookNotFound):
		redirectWithFlash(c, bc.sessions, "error", "Book not found", "/books")
	case errors.Is(err, catalog.ErrCategoryNotFound):
		redirectWithFlash(c, bc.sessions, "error", "Category not found", fmt.Sprintf("/edit_book/%d", bookID))
	case err != nil:
		redirectWithFlash(c, bc.sessions, "error", "Error updating book", "/books")
	default:
		redirectWithFlash(c, bc.sessions, "success", "Book updated successfully!", "/books")
	}
}

// ProgressPage renders the reading-progress form for a book.
func (bc *BooksController) ProgressPage(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, bc.sessions, "id", "/books")
	if !ok {
		return
	}

	book, err := bc.books.Get(userID, bookID)
	if err != nil {
		redirectWithFlash(c, bc.sessions, "error", "Book not found", "/books")
		return
	}

	totalPages := ""
	if book.TotalPages != nil {
		totalPages = strconv.Itoa(*book.TotalPages)
	}
	startDate := ""
	if book.StartDate != nil {
		startDate = book.StartDate.Format("2006-01-02")
	}
	finishDate := ""
	if book.FinishDate != nil {
		finishDate = book.FinishDate.Format("2006-01-02")
	}

	render(c, bc.sessions, "progress", gin.H{
		"Title":      "Update Progress - Book Master",
		"Book":       book,
		"TotalPages": totalPages,
		"StartDate":  startDate,
		"FinishDate": finishDate,
	})
}

// UpdateProgress handles the reading-progress form submission.
func (bc *BooksController) UpdateProgress(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, bc.sessions, "id", "/books")
	if !ok {
		return
	}

	input := catalog.ProgressInput{
		Status:     entities.ReadingStatus(c.PostForm("reading_status")),
		TotalPages: parseOptionalInt(c.PostForm("total_pages")),
		StartDate:  parseOptionalDate(c.PostForm("start_date")),
		FinishDate: parseOptionalDate(c.PostForm("finish_date")),
	}
	if currentPage := parseOptionalInt(c.PostForm("current_page")); currentPage != nil {
		input.CurrentPage = *currentPage
	}

	err := bc.books.UpdateProgress(userID, bookID, input)
	switch {
	case errors.Is(err, catalog.ErrInvalidStatus):
		redirectWithFlash(c, bc.sessions, "error", "Invalid reading status", fmt.Sprintf("/update_progress/%d", bookID))
	case errors.Is(err, catalog.ErrBookNotFound):
		redirectWithFlash(c, bc.sessions, "error", "Book not found", "/books")
	case err != nil:
		redirectWithFlash(c, bc.sessions, "error", "Error updating progress", fmt.Sprintf("/update_progress/%d", bookID))
	default:
		redirectWithFlash(c, bc.sessions, "success", "Reading progress updated!", "/books")
	}
}

// DeleteBook handles book deletion.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, bc.sessions, "id", "/books")
	if !ok {
		return
	}

	err := bc.books.Delete(userID, bookID)
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		redirectWithFlash(c, bc.sessions, "error", "Book not found", "/books")
	case err != nil:
		redirectWithFlash(c, bc.sessions, "error", "Error deleting book", "/books")
	default:
		redirectWithFlash(c, bc.sessions, "success", "Book deleted successfully!", "/books")
	}
}

// DownloadFile streams a book's attachment as a download.
func (bc *BooksController) DownloadFile(c *gin.Context) {
	userID := GetUserID(c)
	bookID, ok := parseIDParam(c, bc.sessions, "id", "/books")
	if !ok {
		return
	}

	path, storedName, err := bc.books.FilePath(userID, bookID)
	switch {
	case errors.Is(err, catalog.ErrBookNotFound), errors.Is(err, catalog.ErrNoAttachedFile):
		redirectWithFlash(c, bc.sessions, "error", "File not found!", "/books")
		return
	case errors.Is(err, uploads.ErrFileNotFound):
		redirectWithFlash(c, bc.sessions, "error", "File no longer exists!", "/books")
		return
	case err != nil:
		redirectWithFlash(c, bc.sessions, "error", "Error downloading file", "/books")
		return
	}

	c.FileAttachment(path, storedName)
}
