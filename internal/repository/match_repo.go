package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CricBase/internal/model"
	"CricBase/internal/stats"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchGroup 一场比赛 + 出场球员 + 全部投球，作为一个事务写入
type MatchGroup struct {
	Match      *model.Match
	People     []model.Person
	Players    []model.MatchPlayer
	Deliveries []model.Delivery
}

// MatchRepository 比赛仓储（唯一可写的主数据）
type MatchRepository interface {
	// SaveMatchGroup 单事务写入整组数据，任何一步失败整组回滚
	SaveMatchGroup(ctx context.Context, g *MatchGroup) error
	// ListMatchIDs 已入库的比赛 ID
	ListMatchIDs(ctx context.Context) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*model.Match, error)
	ListPlayers(ctx context.Context, matchID string) ([]model.MatchPlayer, error)
	// ReadMatchSummaries 投影为对账五元组所需字段；from/to 为空表示不限
	ReadMatchSummaries(ctx context.Context, from, to *time.Time) ([]model.CanonicalSummary, error)
	// UpdateScheduledStart 只在尚未补全时写入开赛时间，返回是否写入
	UpdateScheduledStart(ctx context.Context, matchID string, start time.Time) (bool, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

const deliveryBatchSize = 500

func (r *matchRepository) SaveMatchGroup(ctx context.Context, g *MatchGroup) error {
	if g == nil || g.Match == nil {
		return errors.New("比赛组为空")
	}
	matchID := g.Match.MatchID

	// 开启事务
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

	// 1. 人员登记（已存在则跳过）
	if len(g.People) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(g.People, 200).Error; err != nil {
			tx.Rollback()
			return wrapGroupErr(matchID, "保存人员", err)
		}
	}

	// 2. 比赛
	if err := tx.Omit(clause.Associations).Create(g.Match).Error; err != nil {
		tx.Rollback()
		return wrapGroupErr(matchID, "保存比赛", err)
	}

	// 3. 出场球员
	if len(g.Players) > 0 {
		if err := tx.Omit(clause.Associations).CreateInBatches(g.Players, 200).Error; err != nil {
			tx.Rollback()
			return wrapGroupErr(matchID, "保存出场球员", err)
		}
	}

	// 4. 投球
	if len(g.Deliveries) > 0 {
		rows := make([]model.DeliveryRow, len(g.Deliveries))
		for i := range g.Deliveries {
			rows[i] = g.Deliveries[i].ToRow()
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(rows, deliveryBatchSize).Error; err != nil {
			tx.Rollback()
			return wrapGroupErr(matchID, "保存投球", err)
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func (r *matchRepository) ListMatchIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Match{}).Order("match_id").Pluck("match_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询比赛ID失败: %w", err)
	}
	return ids, nil
}

func (r *matchRepository) GetMatch(ctx context.Context, matchID string) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) ListPlayers(ctx context.Context, matchID string) ([]model.MatchPlayer, error) {
	var list []model.MatchPlayer
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).Order("identifier").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) ReadMatchSummaries(ctx context.Context, from, to *time.Time) ([]model.CanonicalSummary, error) {
	db := r.db.WithContext(ctx).Model(&model.Match{})
	if from != nil {
		db = db.Where("start_date >= ?", *from)
	}
	if to != nil {
		db = db.Where("start_date <= ?", *to)
	}
	var matches []model.Match
	if err := db.Order("start_date ASC, match_id ASC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	var teams []model.Team
	if err := r.db.WithContext(ctx).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("查询球队失败: %w", err)
	}
	teamName := make(map[string]string, len(teams))
	for _, t := range teams {
		teamName[t.TeamID] = t.FullName
	}
	var venues []model.Venue
	if err := r.db.WithContext(ctx).Find(&venues).Error; err != nil {
		return nil, fmt.Errorf("查询场馆失败: %w", err)
	}
	venueNation := make(map[string]string, len(venues))
	for _, v := range venues {
		venueNation[v.VenueID] = v.Nation
	}

	nameOf := func(id *string) string {
		if id == nil {
			return ""
		}
		return teamName[*id]
	}

	out := make([]model.CanonicalSummary, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		out = append(out, model.CanonicalSummary{
			MatchID:     m.MatchID,
			Date:        m.StartDate.Format(model.DateLayout),
			Team1:       teamName[m.Team1ID],
			Team2:       teamName[m.Team2ID],
			ResultText:  stats.ResultNarrative(stats.OutcomeOf(m, nameOf(m.WinnerID))),
			TossText:    stats.TossNarrative(nameOf(m.TossWinnerID), m.TossDecision),
			VenueNation: venueNation[m.VenueID],
			HasSchedule: m.ScheduledStart != nil,
		})
	}
	return out, nil
}

func (r *matchRepository) UpdateScheduledStart(ctx context.Context, matchID string, start time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("match_id = ? AND scheduled_start IS NULL", matchID).
		Update("scheduled_start", start.UTC())
	if res.Error != nil {
		return false, fmt.Errorf("更新开赛时间失败: %w, match_id: %s", res.Error, matchID)
	}
	return res.RowsAffected > 0, nil
}
