package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/catalog"
)

// StatsController renders the reading statistics page.
type StatsController struct {
	stats    *catalog.StatsService
	sessions *auth.SessionManager
}

// NewStatsController creates a new statistics controller.
func NewStatsController(statsService *catalog.StatsService, sessions *auth.SessionManager) *StatsController {
	return &StatsController{
		stats:    statsService,
		sessions: sessions,
	}
}

// StatsPage renders per-status counts and the recently finished books.
func (sc *StatsController) StatsPage(c *gin.Context) {
	userID := GetUserID(c)

	stats, err := sc.stats.Compute(userID)
	if err != nil {
		redirectWithFlash(c, sc.sessions, "error", "Error loading stats", "/books")
		return
	}

	render(c, sc.sessions, "stats", gin.H{
		"Title": "Statistics - Book Master",
		"Stats": stats,
	})
}
