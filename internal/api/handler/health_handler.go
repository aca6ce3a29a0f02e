package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/dto"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler liveness endpoint
type HealthHandler struct {
	db    PingFunc
	redis PingFunc
}

// NewHealthHandler creates a HealthHandler. redis may be nil when the server
// runs without Redis.
func NewHealthHandler(db, redis PingFunc) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health GET /health
// Responds 503 when the database is unreachable; Redis is optional.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db(ctx); err != nil {
			resp.Status, resp.Database = "degraded", "down"
			status = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		resp.Redis = "up"
		if err := h.redis(ctx); err != nil {
			resp.Redis = "down"
		}
	}

	c.JSON(status, resp)
}
