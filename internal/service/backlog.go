package service

import (
	"context"
	"encoding/json"

	"CricBase/internal/model"
	"CricBase/internal/reconcile"
	"CricBase/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BacklogItem 待补录的一场比赛
type BacklogItem struct {
	Position    int                   `json:"position"`
	ExternalID  string                `json:"external_id"`
	Date        string                `json:"date"`
	Team1       string                `json:"team1"`
	Team2       string                `json:"team2"`
	VenueName   string                `json:"venue_name"`
	City        string                `json:"city"`
	VenueNation string                `json:"venue_nation"`
	TossText    string                `json:"toss_text"`
	ResultText  string                `json:"result_text"`
	Diagnoses   []reconcile.Diagnosis `json:"diagnoses,omitempty"`
}

// BacklogListResult 分页结果
type BacklogListResult struct {
	RunID    string        `json:"run_id"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
	Items    []BacklogItem `json:"items"`
}

// BacklogService 待补录表与入库运行记录的查询
type BacklogService struct {
	backlog repository.BacklogRepository
	runs    repository.IngestRunRepository
	logger  *logrus.Logger
}

func NewBacklogService(db *gorm.DB, logger *logrus.Logger) *BacklogService {
	return &BacklogService{
		backlog: repository.NewBacklogRepository(db),
		runs:    repository.NewIngestRunRepository(db),
		logger:  logger,
	}
}

// ListBacklog 按对账输出顺序分页
func (s *BacklogService) ListBacklog(ctx context.Context, page, pageSize int) (*BacklogListResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	entries, total, err := s.backlog.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	result := &BacklogListResult{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    make([]BacklogItem, 0, len(entries)),
	}
	for _, e := range entries {
		if result.RunID == "" {
			result.RunID = e.RunID
		}
		result.Items = append(result.Items, s.itemOf(e))
	}
	return result, nil
}

func (s *BacklogService) itemOf(e *model.BacklogEntry) BacklogItem {
	item := BacklogItem{
		Position:    e.Position,
		ExternalID:  e.ExternalID,
		Date:        e.MatchDate,
		Team1:       e.Team1,
		Team2:       e.Team2,
		VenueName:   e.VenueName,
		City:        e.City,
		VenueNation: e.VenueNation,
		TossText:    e.TossText,
		ResultText:  e.ResultText,
	}
	if len(e.Diagnostics) > 0 {
		if err := json.Unmarshal(e.Diagnostics, &item.Diagnoses); err != nil {
			s.logger.WithError(err).WithField("external_id", e.ExternalID).Warn("解析近似命中说明失败")
		}
	}
	return item
}

// LatestRuns 最近 n 次入库运行
func (s *BacklogService) LatestRuns(ctx context.Context, n int) ([]*model.IngestRun, error) {
	return s.runs.Latest(ctx, n)
}
