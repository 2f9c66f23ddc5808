package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const serviceName = "klias-campus-backend"

// HealthHandler reports liveness and readiness of the API and its database.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthStatus is the body of the /health response.
type HealthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	checks := map[string]string{"database": "up"}
	status := "healthy"
	code := http.StatusOK

	if err := h.pingDB(c.Request().Context()); err != nil {
		checks["database"] = "down"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, HealthStatus{
		Status:  status,
		Service: serviceName,
		Checks:  checks,
	})
}

// Ready handles GET /ready. Load balancers route traffic only after this
// returns 200.
func (h *HealthHandler) Ready(c echo.Context) error {
	if err := h.pingDB(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
