package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
)

// HomeController renders the public welcome page.
type HomeController struct {
	sessions *auth.SessionManager
}

// NewHomeController creates a new home controller.
func NewHomeController(sessions *auth.SessionManager) *HomeController {
	return &HomeController{sessions: sessions}
}

// Index renders the welcome page. It is reachable without a session;
// the feature links on it lead to login when unauthenticated.
func (hc *HomeController) Index(c *gin.Context) {
	render(c, hc.sessions, "index", gin.H{
		"Title": "Home - Book Master",
	})
}
