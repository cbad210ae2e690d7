package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Pinger checks store connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves the liveness endpoints
type HealthController struct {
	db     Pinger
	logger zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger, logger zerolog.Logger) *HealthController {
	return &HealthController{
		db:     db,
		logger: logger,
	}
}

// Root returns the service banner
// @Summary Service information
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ServiceInfoResponse} "Service information"
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ServiceInfoResponse{
		Name:    "marksdesk",
		Version: Version,
		Status:  "running",
		Docs:    "/swagger/index.html",
	}))
}

// Health reports service and database health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		c.logger.Warn().Err(err).Msg("Database health check failed")
		resp := dto.NewSuccessResponse(dto.HealthResponse{Status: "unhealthy", Database: "disconnected"})
		resp.Success = false
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "healthy", Database: "connected"}))
}
