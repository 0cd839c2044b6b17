// Package uploads stores book files attached by users in a flat
// directory on local disk.
//
// Stored names are derived from a unix-timestamp prefix plus the
// sanitized original filename, which keeps concurrent uploads from
// colliding and strips any path components a client might smuggle in.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrExtensionNotAllowed = errors.New("file type is not allowed")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrFileNotFound        = errors.New("file not found")
)

// AllowedExtensions is the set of file extensions accepted for upload.
var AllowedExtensions = map[string]bool{
	"pdf": true, "txt": true, "epub": true, "mobi": true,
	"azw": true, "azw3": true, "doc": true, "docx": true,
	"rtf": true, "html": true, "htm": true, "fb2": true,
	"cbz": true, "cbr": true,
}

// Store saves and serves uploaded book files under a single directory.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates the upload directory if needed and returns a store.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Allowed reports whether the filename carries an accepted extension.
func Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext != "" && AllowedExtensions[ext]
}

// Save validates and writes an uploaded file, returning the stored name.
// size must be the declared upload size in bytes.
func (s *Store) Save(filename string, size int64, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", ErrExtensionNotAllowed
	}
	if size > s.maxSize {
		return "", ErrFileTooLarge
	}

	storedName := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(filename))
	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// The declared size is client-supplied; cap the copy as well.
	written, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}

	return storedName, nil
}

// Path returns the on-disk path for a stored name, verifying the file
// still exists. The database and filesystem can drift when files are
// removed out of band.
func (s *Store) Path(storedName string) (string, error) {
	// Reject anything that would escape the uploads directory.
	if storedName == "" || storedName != filepath.Base(storedName) {
		return "", ErrFileNotFound
	}

	path := filepath.Join(s.dir, storedName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", err
	}
	return path, nil
}

// Remove deletes a stored file. Absence is not an error.
func (s *Store) Remove(storedName string) error {
	if storedName == "" || storedName != filepath.Base(storedName) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the stored names currently on disk.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// sanitizeFilename strips path components and characters that are
// unsafe in a filename, keeping the extension intact.
func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if strings.Trim(sanitized, "._") == "" {
		return "file"
	}
	return sanitized
}
