package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/catalog"
)

// CategoriesController handles the categories page and its forms.
type CategoriesController struct {
	categories *catalog.CategoryService
	sessions   *auth.SessionManager
}

// NewCategoriesController creates a new categories controller.
func NewCategoriesController(categoryService *catalog.CategoryService, sessions *auth.SessionManager) *CategoriesController {
	return &CategoriesController{
		categories: categoryService,
		sessions:   sessions,
	}
}

// CategoriesPage renders the categories page with per-category book counts.
func (cc *CategoriesController) CategoriesPage(c *gin.Context) {
	userID := GetUserID(c)

	categories, err := cc.categories.ListWithCounts(userID)
	if err != nil {
		redirectWithFlash(c, cc.sessions, "error", "Error loading categories", "/books")
		return
	}

	render(c, cc.sessions, "categories", gin.H{
		"Title":           "Categories - Book Master",
		"Categories":      categories,
		"TotalCategories": len(categories),
	})
}

// AddCategory handles the add-category form submission.
func (cc *CategoriesController) AddCategory(c *gin.Context) {
	userID := GetUserID(c)
	name := strings.TrimSpace(c.PostForm("category_name"))

	category, err := cc.categories.Add(userID, name)
	switch {
	case errors.Is(err, catalog.ErrNameRequired):
		redirectWithFlash(c, cc.sessions, "error", "Category name is required", "/categories")
	case errors.Is(err, catalog.ErrCategoryExists):
		redirectWithFlash(c, cc.sessions, "error", "Category already exists", "/categories")
	case err != nil:
		redirectWithFlash(c, cc.sessions, "error", "Error adding category", "/categories")
	default:
		redirectWithFlash(c, cc.sessions, "success", fmt.Sprintf("Category %q added successfully!", category.Name), "/categories")
	}
}

// DeleteCategory handles category deletion. Books that referenced the
// category survive with the reference cleared.
func (cc *CategoriesController) DeleteCategory(c *gin.Context) {
	userID := GetUserID(c)
	categoryID, ok := parseIDParam(c, cc.sessions, "id", "/categories")
	if !ok {
		return
	}

	err := cc.categories.Delete(userID, categoryID)
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		redirectWithFlash(c, cc.sessions, "error", "Category not found", "/categories")
	case err != nil:
		redirectWithFlash(c, cc.sessions, "error", "Error deleting category", "/categories")
	default:
		redirectWithFlash(c, cc.sessions, "success", "Category deleted successfully!", "/categories")
	}
}
