package repository

import (
	"context"
	"fmt"

	"CricBase/internal/model"

	"gorm.io/gorm"
)

// IngestRunRepository 入库运行记录
type IngestRunRepository interface {
	Save(ctx context.Context, run *model.IngestRun) error
	// Latest 最近 n 次运行，新的在前
	Latest(ctx context.Context, n int) ([]*model.IngestRun, error)
}

type ingestRunRepository struct {
	db *gorm.DB
}

func NewIngestRunRepository(db *gorm.DB) IngestRunRepository {
	return &ingestRunRepository{db: db}
}

func (r *ingestRunRepository) Save(ctx context.Context, run *model.IngestRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("保存入库记录失败: %w, run_id: %s", err, run.RunID)
	}
	return nil
}

func (r *ingestRunRepository) Latest(ctx context.Context, n int) ([]*model.IngestRun, error) {
	if n <= 0 {
		n = 10
	}
	var list []*model.IngestRun
	if err := r.db.WithContext(ctx).Order("started_at DESC, id DESC").Limit(n).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
