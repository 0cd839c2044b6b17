package categories

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookmaster/bookmaster/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_categories_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Category{}, &entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_ListForUser_OrderedByName(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Science", 1)
	require.NoError(t, err)
	_, err = repo.Create("Fiction", 1)
	require.NoError(t, err)
	_, err = repo.Create("History", 2)
	require.NoError(t, err)

	categories, err := repo.ListForUser(1)

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Fiction", categories[0].Name)
	assert.Equal(t, "Science", categories[1].Name)
}

func TestRepository_GetByID_OwnerScoped(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.Create("Fiction", 1)
	require.NoError(t, err)

	_, err = repo.GetByID(created.ID, 1)
	assert.NoError(t, err)

	_, err = repo.GetByID(created.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Exists_PerOwner(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Fiction", 1)
	require.NoError(t, err)

	exists, err := repo.Exists("Fiction", 1)
	require.NoError(t, err)
	assert.True(t, exists)

	// The same name is free for another owner.
	exists, err = repo.Exists("Fiction", 2)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_Exists_CaseSensitive(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create("Fiction", 1)
	require.NoError(t, err)

	exists, err := repo.Exists("fiction", 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_Delete_ClearsBookReferences(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category, err := repo.Create("Fiction", 1)
	require.NoError(t, err)

	book := &entities.Book{Title: "Dune", UserID: 1, CategoryID: &category.ID}
	require.NoError(t, db.Create(book).Error)

	deleted, err := repo.Delete(category.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var reloaded entities.Book
	require.NoError(t, db.First(&reloaded, book.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
}

func TestRepository_Delete_NotOwned(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	category, err := repo.Create("Fiction", 1)
	require.NoError(t, err)

	deleted, err := repo.Delete(category.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// Still there for the real owner.
	_, err = repo.GetByID(category.ID, 1)
	assert.NoError(t, err)
}

func TestRepository_CountBooks(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	category, err := repo.Create("Fiction", 1)
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Book{Title: "Dune", UserID: 1, CategoryID: &category.ID}).Error)
	require.NoError(t, db.Create(&entities.Book{Title: "Hyperion", UserID: 1, CategoryID: &category.ID}).Error)
	require.NoError(t, db.Create(&entities.Book{Title: "Solaris", UserID: 1}).Error)

	count, err := repo.CountBooks(category.ID, 1)

	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
