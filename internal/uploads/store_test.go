package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxSize int64) *Store {
	store, err := NewStore(t.TempDir(), maxSize)
	require.NoError(t, err)
	return store
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("book.pdf"))
	assert.True(t, Allowed("Book.EPUB"))
	assert.True(t, Allowed("archive.cbz"))
	assert.False(t, Allowed("malware.exe"))
	assert.False(t, Allowed("script.sh"))
	assert.False(t, Allowed("noextension"))
	assert.False(t, Allowed(""))
}

func TestStore_Save(t *testing.T) {
	store := newTestStore(t, 1024)

	content := "hello book"
	storedName, err := store.Save("my book.pdf", int64(len(content)), strings.NewReader(content))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedName, "_my_book.pdf"))

	path, err := store.Path(storedName)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestStore_Save_DisallowedExtension(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Save("malware.exe", 10, strings.NewReader("0123456789"))

	assert.ErrorIs(t, err, ErrExtensionNotAllowed)
}

func TestStore_Save_DeclaredSizeTooLarge(t *testing.T) {
	store := newTestStore(t, 10)

	_, err := store.Save("book.pdf", 11, strings.NewReader("too big by one"))

	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestStore_Save_ActualSizeTooLarge(t *testing.T) {
	store := newTestStore(t, 10)

	// Declared size lies; the copy itself is capped.
	_, err := store.Save("book.pdf", 5, strings.NewReader(strings.Repeat("x", 50)))

	assert.ErrorIs(t, err, ErrFileTooLarge)

	// Nothing left behind.
	names, listErr := store.List()
	require.NoError(t, listErr)
	assert.Empty(t, names)
}

func TestStore_Save_StripsPathComponents(t *testing.T) {
	store := newTestStore(t, 1024)

	storedName, err := store.Save("../../etc/passwd.txt", 5, strings.NewReader("hello"))

	require.NoError(t, err)
	assert.NotContains(t, storedName, "/")
	assert.NotContains(t, storedName, "..")

	// The file landed inside the store directory.
	path, err := store.Path(storedName)
	require.NoError(t, err)
	assert.Equal(t, store.Dir(), filepath.Dir(path))
}

func TestStore_Path_NotFound(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Path("missing.pdf")

	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestStore_Path_RejectsTraversal(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Path("../outside.pdf")

	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestStore_Remove_AbsenceIsNotAnError(t *testing.T) {
	store := newTestStore(t, 1024)

	assert.NoError(t, store.Remove("never-existed.pdf"))
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t, 1024)

	storedName, err := store.Save("book.pdf", 5, strings.NewReader("hello"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(storedName))

	_, err = store.Path(storedName)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_book.pdf", sanitizeFilename("my book.pdf"))
	assert.Equal(t, "passwd.txt", sanitizeFilename("../../etc/passwd.txt"))
	assert.Equal(t, "file", sanitizeFilename("???"))
}
