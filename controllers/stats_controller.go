package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// StatsController provides aggregate statistics for the service.
type StatsController struct {
	stats store.StatsStore
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(stats store.StatsStore) *StatsController {
	return &StatsController{stats: stats}
}

// GetStats returns entity totals.
func (s *StatsController) GetStats(ctx *gin.Context) {
	totals, err := s.stats.Totals(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("stats failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to fetch stats")
		return
	}
	utils.Success(ctx, totals)
}
