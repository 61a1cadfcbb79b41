package api

import (
	"CricBase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RegisterRoutes 注册全部接口
func RegisterRoutes(r *gin.Engine, db *gorm.DB, syncService *service.SyncService, cricsheetDir string, logger *logrus.Logger) {
	syncHandler := NewSyncHandler(syncService, cricsheetDir, logger)
	r.POST("/sync/ingest", syncHandler.IngestHandler)
	r.POST("/sync/reconcile", syncHandler.ReconcileHandler)
	r.GET("/api/integrity", syncHandler.IntegrityHandler)

	backlogHandler := NewBacklogHandler(db, logger)
	r.GET("/api/backlog", backlogHandler.ListBacklog)
	r.GET("/api/runs", backlogHandler.ListRuns)

	statsHandler := NewStatsHandler(db, logger)
	r.GET("/api/stats/batting/:player_id", statsHandler.GetBatting)
	r.GET("/api/stats/bowling/:player_id", statsHandler.GetBowling)
	r.GET("/api/matches/:match_id/summary", statsHandler.GetMatchSummary)
}
