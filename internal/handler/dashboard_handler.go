package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digiboard/digiboard-api/internal/service"
	"github.com/digiboard/digiboard-api/pkg/response"
)

// DashboardHandler exposes the admin landing page summary.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs a new DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Teacher and lecture counts plus the next upcoming lecture
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
