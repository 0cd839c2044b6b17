package catalog

import (
	"fmt"
	"log"

	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

// SweepService removes uploaded files that no book row references.
// Orphans accumulate when a file removal after book deletion fails, or
// when rows are removed out of band.
type SweepService struct {
	books *books.Repository
	files *uploads.Store
}

// NewSweepService creates a new sweep service.
func NewSweepService(booksRepo *books.Repository, files *uploads.Store) *SweepService {
	return &SweepService{books: booksRepo, files: files}
}

// SweepOrphans deletes files on disk not referenced by any book.
// Returns the number of files removed.
func (s *SweepService) SweepOrphans() (int, error) {
	referenced, err := s.books.AllFileNames()
	if err != nil {
		return 0, fmt.Errorf("list referenced files: %w", err)
	}

	keep := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		keep[name] = true
	}

	onDisk, err := s.files.List()
	if err != nil {
		return 0, fmt.Errorf("list stored files: %w", err)
	}

	removed := 0
	for _, name := range onDisk {
		if keep[name] {
			continue
		}
		if err := s.files.Remove(name); err != nil {
			log.Printf("WARNING: could not remove orphaned file %s: %v", name, err)
			continue
		}
		removed++
	}

	return removed, nil
}
