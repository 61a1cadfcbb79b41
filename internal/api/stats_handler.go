package api

import (
	"errors"
	"net/http"

	"CricBase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StatsHandler 球员生涯与单场汇总
type StatsHandler struct {
	statsService *service.StatsService
	logger       *logrus.Logger
}

func NewStatsHandler(db *gorm.DB, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: service.NewStatsService(db),
		logger:       logger,
	}
}

// GetBatting GET /api/stats/batting/:player_id
func (h *StatsHandler) GetBatting(c *gin.Context) {
	report, err := h.statsService.Batting(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		h.fail(c, "GetBatting failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetBowling GET /api/stats/bowling/:player_id
func (h *StatsHandler) GetBowling(c *gin.Context) {
	report, err := h.statsService.Bowling(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		h.fail(c, "GetBowling failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMatchSummary GET /api/matches/:match_id/summary
func (h *StatsHandler) GetMatchSummary(c *gin.Context) {
	rollup, err := h.statsService.MatchSummary(c.Request.Context(), c.Param("match_id"))
	if err != nil {
		h.fail(c, "GetMatchSummary failed", err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

func (h *StatsHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
