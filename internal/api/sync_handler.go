package api

import (
	"errors"
	"net/http"

	"CricBase/internal/model"
	"CricBase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	syncService *service.SyncService
	defaultDir  string
	logger      *logrus.Logger
}

// NewSyncHandler defaultDir 为请求未指定 dir 时使用的事件文件目录
func NewSyncHandler(syncService *service.SyncService, defaultDir string, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		defaultDir:  defaultDir,
		logger:      logger,
	}
}

// IngestHandler 入库事件文件
// POST /sync/ingest?dir=./data/cricsheet
func (h *SyncHandler) IngestHandler(c *gin.Context) {
	dir := c.DefaultQuery("dir", h.defaultDir)
	report, err := h.syncService.Ingest(c.Request.Context(), dir)
	if err != nil {
		h.fail(c, "入库失败", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReconcileHandler 按月份区间对账
// POST /sync/reconcile?from=2024-01&to=2024-03
func (h *SyncHandler) ReconcileHandler(c *gin.Context) {
	period, err := model.ParsePeriod(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.syncService.Reconcile(c.Request.Context(), period)
	if err != nil {
		h.fail(c, "对账失败", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// IntegrityHandler 整库完整性检查
// GET /api/integrity
func (h *SyncHandler) IntegrityHandler(c *gin.Context) {
	issues, err := h.syncService.Verify(c.Request.Context())
	if err != nil {
		h.fail(c, "完整性检查失败", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":     len(issues) == 0,
		"issues": issues,
	})
}

func (h *SyncHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrStoreBusy) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.logger.WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
