package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// The auth middleware guarantees it is set on every protected route.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// redirectWithFlash stores a one-shot notice and redirects.
func redirectWithFlash(c *gin.Context, sessions *auth.SessionManager, kind, message, location string) {
	sessions.PutFlash(c.Request, kind, message)
	c.Redirect(http.StatusFound, location)
}

// render renders an HTML page with the session-derived fields
// (flash notice, CSRF token, auth state) merged into the data.
func render(c *gin.Context, sessions *auth.SessionManager, name string, data gin.H) {
	data["CSRFToken"] = auth.GetCSRFToken(c)
	data["Authenticated"] = auth.IsAuthenticated(c)
	data["Username"] = auth.GetUsername(c)
	if flash := sessions.PopFlash(c.Request); flash != nil {
		data["Flash"] = flash
	}
	c.HTML(http.StatusOK, name, data)
}

// parseIDParam extracts an unsigned integer ID from URL parameters.
// On failure the user is sent back to fallback with a notice.
func parseIDParam(c *gin.Context, sessions *auth.SessionManager, paramName, fallback string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		redirectWithFlash(c, sessions, "error", "Invalid "+paramName, fallback)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUint parses a form/query value into a *uint,
// treating the empty string as absent.
func parseOptionalUint(raw string) *uint {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	result := uint(value)
	return &result
}

// parseOptionalInt parses a form value into a *int, treating the
// empty string as absent.
func parseOptionalInt(raw string) *int {
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

// parseOptionalDate parses an HTML date input value (YYYY-MM-DD),
// treating the empty string as absent.
func parseOptionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &value
}

// BodyLimitMiddleware caps the request body size so oversized uploads
// are cut off while streaming rather than buffered in full.
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
