package api

import (
	"net/http"
	"strconv"

	"CricBase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BacklogHandler 待补录表与入库记录查询
type BacklogHandler struct {
	backlogService *service.BacklogService
	logger         *logrus.Logger
}

func NewBacklogHandler(db *gorm.DB, logger *logrus.Logger) *BacklogHandler {
	return &BacklogHandler{
		backlogService: service.NewBacklogService(db, logger),
		logger:         logger,
	}
}

// ListBacklog 待补录列表
// GET /api/backlog?page=1&page_size=20
func (h *BacklogHandler) ListBacklog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.backlogService.ListBacklog(c.Request.Context(), page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListBacklog failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListRuns 最近的入库运行
// GET /api/runs?limit=10
func (h *BacklogHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	runs, err := h.backlogService.LatestRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListRuns failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}
