package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Add(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	category, err := env.categories.Add(1, "Fiction")

	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Fiction", category.Name)
}

func TestCategoryService_Add_BlankName(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.categories.Add(1, "")

	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCategoryService_Add_DuplicatePerOwner(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.categories.Add(1, "Fiction")
	require.NoError(t, err)

	_, err = env.categories.Add(1, "Fiction")
	assert.ErrorIs(t, err, ErrCategoryExists)

	// The same name is fine for a different owner.
	_, err = env.categories.Add(2, "Fiction")
	assert.NoError(t, err)
}

func TestCategoryService_ListWithCounts(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	fiction, err := env.categories.Add(1, "Fiction")
	require.NoError(t, err)
	_, err = env.categories.Add(1, "Science")
	require.NoError(t, err)

	_, err = env.books.Add(1, AddBookInput{Title: "Dune", CategoryID: &fiction.ID})
	require.NoError(t, err)
	_, err = env.books.Add(1, AddBookInput{Title: "Hyperion", CategoryID: &fiction.ID})
	require.NoError(t, err)

	listed, err := env.categories.ListWithCounts(1)

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Fiction", listed[0].Name)
	assert.EqualValues(t, 2, listed[0].BookCount)
	assert.Equal(t, "Science", listed[1].Name)
	assert.Zero(t, listed[1].BookCount)
}

func TestCategoryService_Delete_BooksSurvive(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	fiction, err := env.categories.Add(1, "Fiction")
	require.NoError(t, err)

	book, err := env.books.Add(1, AddBookInput{Title: "Dune", CategoryID: &fiction.ID})
	require.NoError(t, err)

	err = env.categories.Delete(1, fiction.ID)
	require.NoError(t, err)

	reloaded, err := env.books.Get(1, book.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
	assert.Empty(t, reloaded.CategoryName())
}

func TestCategoryService_Delete_NotFound(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	err := env.categories.Delete(1, 999)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_Delete_CrossOwner(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	fiction, err := env.categories.Add(1, "Fiction")
	require.NoError(t, err)

	err = env.categories.Delete(2, fiction.ID)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
