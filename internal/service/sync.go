package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"CricBase/internal/model"
	"CricBase/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrStoreBusy 另一个入库或对账正在占用规范库
var ErrStoreBusy = errors.New("规范库正被其它任务占用")

// StoreGuard 规范库单写者保护：入库与对账互斥，不排队
type StoreGuard struct {
	mu    sync.Mutex
	owner atomic.Value
}

// TryAcquire 拿不到锁立即返回 false 和当前持有者
func (g *StoreGuard) TryAcquire(owner string) (bool, string) {
	if !g.mu.TryLock() {
		return false, g.current()
	}
	g.owner.Store(owner)
	return true, owner
}

func (g *StoreGuard) current() string {
	s, _ := g.owner.Load().(string)
	return s
}

func (g *StoreGuard) Release() {
	g.owner.Store("")
	g.mu.Unlock()
}

// SyncService 入库/对账/完整性检查的统一入口（HTTP 与命令行共用）
type SyncService struct {
	guard     *StoreGuard
	ingest    *IngestService
	reconcile *ReconcileService
	integrity repository.IntegrityRepository
	logger    *logrus.Logger
}

func NewSyncService(db *gorm.DB, ingest *IngestService, reconcile *ReconcileService, logger *logrus.Logger) *SyncService {
	return &SyncService{
		guard:     &StoreGuard{},
		ingest:    ingest,
		reconcile: reconcile,
		integrity: repository.NewIntegrityRepository(db),
		logger:    logger,
	}
}

// Ingest 入库；规范库被占用时返回 ErrStoreBusy
func (s *SyncService) Ingest(ctx context.Context, dir string) (*IngestReport, error) {
	if ok, owner := s.guard.TryAcquire("ingest"); !ok {
		s.logger.WithField("owner", owner).Warn("规范库被占用，拒绝入库")
		return nil, ErrStoreBusy
	}
	defer s.guard.Release()
	return s.ingest.Run(ctx, dir)
}

// Reconcile 对账；与入库互斥
func (s *SyncService) Reconcile(ctx context.Context, period model.Period) (*ReconcileReport, error) {
	if s.reconcile == nil {
		return nil, errors.New("未配置赛程源")
	}
	if ok, owner := s.guard.TryAcquire("reconcile"); !ok {
		s.logger.WithField("owner", owner).Warn("规范库被占用，拒绝对账")
		return nil, ErrStoreBusy
	}
	defer s.guard.Release()
	return s.reconcile.Run(ctx, period)
}

// Verify 整库完整性检查（只读，不加锁）
func (s *SyncService) Verify(ctx context.Context) ([]repository.IntegrityIssue, error) {
	return s.integrity.VerifyIntegrity(ctx)
}
