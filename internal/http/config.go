package http

import (
	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/catalog"
	"github.com/bookmaster/bookmaster/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Books      *catalog.BookService
	Categories *catalog.CategoryService
	Stats      *catalog.StatsService

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Upload limits
	MaxUploadSizeBytes int64

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
