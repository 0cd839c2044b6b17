package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/entities"
)

// statusLabel maps a reading status to its display text.
func statusLabel(status entities.ReadingStatus) string {
	switch status {
	case entities.StatusReading:
		return "Reading"
	case entities.StatusFinished:
		return "Finished"
	default:
		return "Not started"
	}
}

// formatDate renders an optional date for display.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Cut off oversized request bodies while they stream in. The margin
	// over the upload cap leaves room for the other multipart fields.
	router.Use(BodyLimitMiddleware(cfg.MaxUploadSizeBytes + 1<<20))

	// CSRF must run before session so that session context is preserved
	router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.Handler())

	funcMap := template.FuncMap{
		"statusLabel": statusLabel,
		"formatDate":  formatDate,
	}

	// Load HTML templates with custom functions
	tmpl, err := template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	// Auth routes (login, register, logout)
	authController, err := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	authController.RegisterRoutes(router)

	home := NewHomeController(cfg.SessionManager)
	booksController := NewBooksController(cfg.Books, cfg.Categories, cfg.SessionManager)
	categoriesController := NewCategoriesController(cfg.Categories, cfg.SessionManager)
	statsController := NewStatsController(cfg.Stats, cfg.SessionManager)
	health := NewHealthController(cfg.Database, cfg.Version)

	router.GET("/health", health.Status)
	router.GET("/", home.Index)

	// Book routes
	router.GET("/books", booksController.ListBooks)
	router.GET("/add_book", booksController.AddBookPage)
	router.POST("/add_book", booksController.AddBook)
	router.GET("/edit_book/:id", booksController.EditBookPage)
	router.POST("/edit_book/:id", booksController.EditBook)
	router.GET("/update_progress/:id", booksController.ProgressPage)
	router.POST("/update_progress/:id", booksController.UpdateProgress)
	router.POST("/delete_book/:id", booksController.DeleteBook)
	router.GET("/download_file/:id", booksController.DownloadFile)

	// Category routes
	router.GET("/categories", categoriesController.CategoriesPage)
	router.POST("/add_category", categoriesController.AddCategory)
	router.POST("/delete_category/:id", categoriesController.DeleteCategory)

	// Stats route
	router.GET("/stats", statsController.StatsPage)

	return router, nil
}
