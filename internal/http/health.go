package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookmaster/bookmaster/internal/database"
)

// HealthResponse reports service liveness and dependency checks.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports service health.
type HealthController struct {
	db      *database.Database
	version string
}

// NewHealthController creates a new health controller.
func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status pings the database and reports overall health.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		checks["database"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
