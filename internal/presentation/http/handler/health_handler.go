package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db      *gorm.DB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}

	data := gin.H{
		"database": "up",
		"version":  h.version,
		"time":     time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		data["database"] = "down"
		c.JSON(http.StatusServiceUnavailable, response.APIResponse{
			Success: false,
			Message: "Database unreachable",
			Data:    data,
		})
		return
	}
	response.OK(c, "Service is healthy", data)
}
