package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// Middleware authenticates HTTP requests from their session cookie.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	publicPaths := map[string]bool{
		"/":            true, // Welcome page
		"/health":      true,
		"/login":       true,
		"/register":    true,
		"/favicon.ico": true,
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		publicPaths:    publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
// Unauthenticated requests to protected paths are redirected to /login
// with a notice; they never reach the handlers.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.trySessionAuth(c); user != nil {
			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyUsername, user.Username)
			c.Next()
			return
		}

		if m.isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.sessionManager.PutFlash(c.Request, "error", "Please login to access this page")
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// trySessionAuth resolves the session cookie to a user, or nil.
func (m *Middleware) trySessionAuth(c *gin.Context) *sessionUser {
	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		// Stale session pointing at a deleted account.
		return nil
	}

	return &sessionUser{ID: user.ID, Username: user.Username}
}

type sessionUser struct {
	ID       uint
	Username string
}

// isPublicPath checks if a path should be accessible without authentication.
func (m *Middleware) isPublicPath(path string) bool {
	if m.publicPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// Helper functions to extract auth data from Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if the request is not authenticated.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// IsAuthenticated returns true if the request is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != 0
}
