package catalog

import "errors"

var (
	ErrTitleRequired    = errors.New("book title is required")
	ErrBookNotFound     = errors.New("book not found")
	ErrNoAttachedFile   = errors.New("book has no attached file")
	ErrNameRequired     = errors.New("category name is required")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidStatus    = errors.New("invalid reading status")
)
