package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vacuno/ganado-api/internal/service"
	"github.com/vacuno/ganado-api/pkg/response"
)

// StatsHandler exposes herd aggregate endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HerdSummary godoc
// @Summary Herd composition and average weight
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /stats/herd [get]
func (h *StatsHandler) HerdSummary(c *gin.Context) {
	summary, err := h.stats.HerdSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
