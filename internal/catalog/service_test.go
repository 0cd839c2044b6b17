package catalog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/database/categories"
	"github.com/bookmaster/bookmaster/internal/entities"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

type testEnv struct {
	db         *gorm.DB
	books      *BookService
	categories *CategoryService
	stats      *StatsService
	sweep      *SweepService
	files      *uploads.Store
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	dbPath := "./test_catalog_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Category{}, &entities.Book{})
	require.NoError(t, err)

	files, err := uploads.NewStore(t.TempDir(), 1024)
	require.NoError(t, err)

	booksRepo := books.NewRepository(db)
	categoriesRepo := categories.NewRepository(db)

	env := &testEnv{
		db:         db,
		books:      NewBookService(booksRepo, categoriesRepo, files),
		categories: NewCategoryService(categoriesRepo),
		stats:      NewStatsService(booksRepo),
		sweep:      NewSweepService(booksRepo, files),
		files:      files,
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return env, cleanup
}

func TestBookService_Add(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	pages := 412
	book, err := env.books.Add(1, AddBookInput{Title: "Dune", Author: "Frank Herbert", TotalPages: &pages})

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, entities.StatusNotStarted, book.Status)
	assert.Nil(t, book.StartDate)
	assert.Nil(t, book.FinishDate)
}

func TestBookService_Add_BlankTitle(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.books.Add(1, AddBookInput{Title: ""})

	assert.ErrorIs(t, err, ErrTitleRequired)

	// Nothing persisted.
	listed, listErr := env.books.List(1, books.Filter{})
	require.NoError(t, listErr)
	assert.Empty(t, listed)
}

func TestBookService_Add_WithFile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	content := "book bytes"
	book, err := env.books.Add(1, AddBookInput{
		Title: "Dune",
		File:  &Upload{Filename: "dune.epub", Size: int64(len(content)), Reader: strings.NewReader(content)},
	})

	require.NoError(t, err)
	require.True(t, book.HasFile())

	path, _, err := env.books.FilePath(1, book.ID)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestBookService_Add_DisallowedFile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.books.Add(1, AddBookInput{
		Title: "Dune",
		File:  &Upload{Filename: "dune.exe", Size: 4, Reader: strings.NewReader("1234")},
	})

	assert.ErrorIs(t, err, uploads.ErrExtensionNotAllowed)

	listed, listErr := env.books.List(1, books.Filter{})
	require.NoError(t, listErr)
	assert.Empty(t, listed)
}

func TestBookService_Add_CrossOwnerCategory(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	category, err := env.categories.Add(2, "Fiction")
	require.NoError(t, err)

	_, err = env.books.Add(1, AddBookInput{Title: "Dune", CategoryID: &category.ID})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestBookService_Get_CrossOwner(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	_, err = env.books.Get(2, book.ID)

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookService_Edit(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	err = env.books.Edit(1, book.ID, EditBookInput{Title: "Dune Messiah", Author: "Frank Herbert"})
	require.NoError(t, err)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", reloaded.Title)
	assert.Equal(t, "Frank Herbert", reloaded.Author)
}

func TestBookService_Edit_CrossOwner(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	err = env.books.Edit(2, book.ID, EditBookInput{Title: "Stolen"})
	assert.ErrorIs(t, err, ErrBookNotFound)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", reloaded.Title)
}

func TestBookService_UpdateProgress_AutoStartDate(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	err = env.books.UpdateProgress(1, book.ID, ProgressInput{Status: entities.StatusReading, CurrentPage: 10})
	require.NoError(t, err)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, today().Equal(*reloaded.StartDate))
	assert.Nil(t, reloaded.FinishDate)
}

func TestBookService_UpdateProgress_ExistingStartDateKept(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	oldStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	err = env.books.UpdateProgress(1, book.ID, ProgressInput{Status: entities.StatusReading, StartDate: &oldStart})
	require.NoError(t, err)

	// A later update without a date must not restamp it.
	err = env.books.UpdateProgress(1, book.ID, ProgressInput{Status: entities.StatusReading, CurrentPage: 50})
	require.NoError(t, err)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.StartDate)
	assert.True(t, oldStart.Equal(*reloaded.StartDate))
}

func TestBookService_UpdateProgress_AutoFinishDate(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	err = env.books.UpdateProgress(1, book.ID, ProgressInput{Status: entities.StatusFinished})
	require.NoError(t, err)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FinishDate)
	assert.True(t, today().Equal(*reloaded.FinishDate))
}

func TestBookService_UpdateProgress_CallerDateWins(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	finished := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	err = env.books.UpdateProgress(1, book.ID, ProgressInput{Status: entities.StatusFinished, FinishDate: &finished})
	require.NoError(t, err)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.FinishDate)
	assert.True(t, finished.Equal(*reloaded.FinishDate))
}

func TestBookService_UpdateProgress_InvalidStatus(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	err = env.books.UpdateProgress(1, book.ID, ProgressInput{Status: "abandoned"})

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestBookService_Delete_RemovesFile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{
		Title: "Dune",
		File:  &Upload{Filename: "dune.pdf", Size: 4, Reader: strings.NewReader("1234")},
	})
	require.NoError(t, err)
	storedName := book.FileName

	err = env.books.Delete(1, book.ID)
	require.NoError(t, err)

	_, err = env.books.Get(1, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = env.files.Path(storedName)
	assert.ErrorIs(t, err, uploads.ErrFileNotFound)
}

func TestBookService_Delete_CrossOwner(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	err = env.books.Delete(2, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = env.books.Get(1, book.ID)
	assert.NoError(t, err)
}

func TestBookService_FilePath_NoFile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{Title: "Dune"})
	require.NoError(t, err)

	_, _, err = env.books.FilePath(1, book.ID)

	assert.ErrorIs(t, err, ErrNoAttachedFile)
}

func TestBookService_FilePath_FileGoneFromDisk(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, err := env.books.Add(1, AddBookInput{
		Title: "Dune",
		File:  &Upload{Filename: "dune.pdf", Size: 4, Reader: strings.NewReader("1234")},
	})
	require.NoError(t, err)

	// Remove the file behind the database's back.
	require.NoError(t, env.files.Remove(book.FileName))

	_, _, err = env.books.FilePath(1, book.ID)

	assert.ErrorIs(t, err, uploads.ErrFileNotFound)
}
