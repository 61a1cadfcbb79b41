package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// IntegrityIssue 一条完整性问题
type IntegrityIssue struct {
	Check   string `json:"check"`
	MatchID string `json:"match_id"`
	Detail  string `json:"detail,omitempty"`
}

const (
	CheckOrphanDelivery     = "orphan_delivery"
	CheckOrphanPlayer       = "orphan_match_player"
	CheckDateRange          = "date_range"
	CheckResultInconsistent = "result_inconsistent"
	CheckPlayerTeam         = "player_team_not_participant"
)

// IntegrityRepository 入库后的整库一致性检查（只读）
type IntegrityRepository interface {
	VerifyIntegrity(ctx context.Context) ([]IntegrityIssue, error)
}

type integrityRepository struct {
	db *gorm.DB
}

func NewIntegrityRepository(db *gorm.DB) IntegrityRepository {
	return &integrityRepository{db: db}
}

type integrityCheck struct {
	name   string
	detail string
	sql    string
}

var integrityChecks = []integrityCheck{
	{
		name:   CheckOrphanDelivery,
		detail: "投球所属比赛不存在",
		sql: `SELECT DISTINCT d.match_id AS match_id FROM deliveries d
LEFT JOIN matches m ON m.match_id = d.match_id WHERE m.match_id IS NULL`,
	},
	{
		name:   CheckOrphanPlayer,
		detail: "出场球员所属比赛不存在",
		sql: `SELECT DISTINCT p.match_id AS match_id FROM match_players p
LEFT JOIN matches m ON m.match_id = p.match_id WHERE m.match_id IS NULL`,
	},
	{
		name:   CheckDateRange,
		detail: "开始日期晚于结束日期或缺失",
		sql: `SELECT match_id FROM matches
WHERE start_date IS NULL OR end_date IS NULL OR end_date < start_date`,
	},
	{
		name:   CheckResultInconsistent,
		detail: "赛果标记互相矛盾",
		sql: `SELECT match_id FROM matches
WHERE (by_runs AND by_wickets)
   OR (winner_id IS NOT NULL AND no_result)
   OR (winner_id IS NOT NULL AND tie AND NOT super_over AND NOT bowl_out)`,
	},
	{
		name:   CheckPlayerTeam,
		detail: "出场球员所属球队不是对阵双方",
		sql: `SELECT DISTINCT p.match_id AS match_id FROM match_players p
JOIN matches m ON m.match_id = p.match_id
WHERE p.team_id <> m.team1_id AND p.team_id <> m.team2_id`,
	},
}

func (r *integrityRepository) VerifyIntegrity(ctx context.Context) ([]IntegrityIssue, error) {
	var issues []IntegrityIssue
	for _, c := range integrityChecks {
		var ids []string
		if err := r.db.WithContext(ctx).Raw(c.sql).Scan(&ids).Error; err != nil {
			return nil, fmt.Errorf("完整性检查 %s 失败: %w", c.name, err)
		}
		for _, id := range ids {
			issues = append(issues, IntegrityIssue{Check: c.name, MatchID: id, Detail: c.detail})
		}
	}
	return issues, nil
}
