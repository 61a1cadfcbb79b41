package repository

import (
	"context"
	"fmt"

	"CricBase/internal/model"

	"gorm.io/gorm"
)

// DeliveryFilter 投球查询条件
type DeliveryFilter struct {
	MatchID  string // 指定比赛
	PlayerID string // 作为击球手、非击球端、投手或出局者出现
}

// DeliveryRepository 面向统计查询的只读仓储
type DeliveryRepository interface {
	// ListDeliveries 按局/轮/球顺序返回投球
	ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, error)
	// CountDeliveries 某场比赛的投球数
	CountDeliveries(ctx context.Context, matchID string) (int64, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, error) {
	db := r.db.WithContext(ctx).Model(&model.DeliveryRow{})
	if filter.MatchID != "" {
		db = db.Where("match_id = ?", filter.MatchID)
	}
	if p := filter.PlayerID; p != "" {
		db = db.Where("batter_id = ? OR non_striker_id = ? OR bowler_id = ? OR player_out_id = ? OR player_out2_id = ?",
			p, p, p, p, p)
	}
	var rows []model.DeliveryRow
	if err := db.Order("match_id ASC, innings ASC, overs ASC, balls ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询投球失败: %w", err)
	}
	out := make([]model.Delivery, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDelivery()
	}
	return out, nil
}

func (r *deliveryRepository) CountDeliveries(ctx context.Context, matchID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.DeliveryRow{}).Where("match_id = ?", matchID).Count(&n).Error
	return n, err
}
