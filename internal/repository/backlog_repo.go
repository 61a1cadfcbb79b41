package repository

import (
	"context"
	"fmt"

	"CricBase/internal/model"

	"gorm.io/gorm"
)

// BacklogRepository 待补录表：每次对账整体替换，不做增量追加
type BacklogRepository interface {
	// Replace 单事务清空并写入本次结果
	Replace(ctx context.Context, entries []model.BacklogEntry) error
	// List 按输出顺序分页
	List(ctx context.Context, page, pageSize int) ([]*model.BacklogEntry, int64, error)
}

type backlogRepository struct {
	db *gorm.DB
}

func NewBacklogRepository(db *gorm.DB) BacklogRepository {
	return &backlogRepository{db: db}
}

func (r *backlogRepository) Replace(ctx context.Context, entries []model.BacklogEntry) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.BacklogEntry{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("清空待补录表失败: %w", err)
	}
	if len(entries) > 0 {
		if err := tx.CreateInBatches(entries, 200).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("写入待补录表失败: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func (r *backlogRepository) List(ctx context.Context, page, pageSize int) ([]*model.BacklogEntry, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.BacklogEntry{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.BacklogEntry
	if err := db.Order("position ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
