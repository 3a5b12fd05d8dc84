package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/models/dto"
	"github.com/yigit/courseportal/internal/middleware"
)

// HealthController reports store availability
type HealthController struct {
	store  middleware.Pinger
	driver string
}

// NewHealthController creates a new HealthController
func NewHealthController(store middleware.Pinger, driver string) *HealthController {
	return &HealthController{store: store, driver: driver}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse "Store unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.store.Ping(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "ok", Driver: c.driver}, ""))
}
