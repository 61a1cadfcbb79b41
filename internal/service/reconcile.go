package service

import (
	"context"
	"encoding/json"
	"errors"

	"CricBase/internal/interfaces"
	"CricBase/internal/model"
	"CricBase/internal/observability"
	"CricBase/internal/reconcile"
	"CricBase/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReconcileReport 一次对账的结果
type ReconcileReport struct {
	RunID       string                `json:"run_id"`
	Period      string                `json:"period"`
	Source      string                `json:"source"`
	Skipped     bool                  `json:"skipped"` // 赛程源无数据，未做任何改动
	Fetched     int                   `json:"fetched"`
	Dropped     int                   `json:"dropped"`
	Exact       int                   `json:"exact"`
	Missing     int                   `json:"missing"`
	Disagreeing int                   `json:"disagreeing"`
	Enriched    int                   `json:"enriched"`
	Diagnoses   []reconcile.Diagnosis `json:"diagnoses"`
}

// ReconcileService 赛程摘要与规范库对账。只读规范数据，
// 写入只有待补录表和 scheduled_start 补全。
type ReconcileService struct {
	source   interfaces.SummarySource
	matches  repository.MatchRepository
	backlog  repository.BacklogRepository
	recorder observability.Recorder
	logger   *logrus.Logger
}

func NewReconcileService(db *gorm.DB, source interfaces.SummarySource, recorder observability.Recorder, logger *logrus.Logger) *ReconcileService {
	if recorder == nil {
		recorder = observability.NoopRecorder{}
	}
	return &ReconcileService{
		source:   source,
		matches:  repository.NewMatchRepository(db),
		backlog:  repository.NewBacklogRepository(db),
		recorder: recorder,
		logger:   logger,
	}
}

func (s *ReconcileService) Run(ctx context.Context, period model.Period) (*ReconcileReport, error) {
	report := &ReconcileReport{
		RunID:     uuid.NewString(),
		Period:    period.String(),
		Source:    s.source.Name(),
		Diagnoses: []reconcile.Diagnosis{},
	}
	log := s.logger.WithFields(logrus.Fields{"run_id": report.RunID, "period": report.Period, "source": report.Source})

	// 1. 拉取赛程摘要；无数据时不做任何改动
	summaries, err := s.source.FetchSummaries(ctx, period)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, interfaces.ErrSourceUnavailable) {
			log = log.WithError(err)
		}
		log.Warn("赛程源不可用，跳过对账")
		report.Skipped = true
		return report, nil
	}
	if len(summaries) == 0 {
		log.Warn("赛程源未返回数据，跳过对账")
		report.Skipped = true
		return report, nil
	}
	report.Fetched = len(summaries)

	// 2. 同源去重
	kept, dropped := reconcile.Collapse(summaries)
	report.Dropped = len(dropped)
	for _, d := range dropped {
		log.WithFields(logrus.Fields{
			"external_id":    d.Dropped.ExternalID,
			"dropped_date":   d.Dropped.Date,
			"dropped_teams":  d.Dropped.Team1 + " v " + d.Dropped.Team2,
			"dropped_result": d.Dropped.ResultText,
			"kept_date":      d.Kept.Date,
			"kept_result":    d.Kept.ResultText,
		}).Warn("重复的赛程记录已丢弃")
	}

	// 3. 规范库投影（全量，日期漂移需要跨月比较）
	canonical, err := s.matches.ReadMatchSummaries(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(canonical) == 0 {
		log.Info("规范库为空，全部记录视为缺失")
	}

	// 4. 对账
	res := reconcile.Match(kept, canonical)
	report.Exact = len(res.Exact)
	report.Missing = len(res.Missing)
	report.Disagreeing = len(res.Disagreeing)
	report.Diagnoses = append(report.Diagnoses, res.Disagreeing...)
	for _, d := range res.Disagreeing {
		log.WithFields(logrus.Fields{
			"kind":            d.Kind,
			"match_id":        d.MatchID,
			"external_id":     d.ExternalID,
			"date":            d.Date,
			"teams":           d.Teams,
			"canonical_value": d.CanonicalValue,
			"external_value":  d.ExternalValue,
		}).Warn("近似命中")
	}

	// 5. 待补录表整体替换
	entries := make([]model.BacklogEntry, 0, len(res.Missing))
	for i, m := range res.Missing {
		entries = append(entries, backlogEntryOf(report.RunID, i, m, res.DiagnosesFor(m)))
	}
	if err := s.backlog.Replace(ctx, entries); err != nil {
		return nil, err
	}

	// 6. 补全开赛时间
	for _, e := range res.Exact {
		if e.External.StartTime == nil {
			continue
		}
		ok, err := s.matches.UpdateScheduledStart(ctx, e.MatchID, *e.External.StartTime)
		if err != nil {
			log.WithError(err).WithField("match_id", e.MatchID).Warn("补全开赛时间失败")
			continue
		}
		if ok {
			report.Enriched++
		}
	}

	s.recorder.RecordReconcile(ctx, report.Exact, report.Missing, report.Disagreeing)
	log.WithFields(logrus.Fields{
		"fetched":     report.Fetched,
		"dropped":     report.Dropped,
		"exact":       report.Exact,
		"missing":     report.Missing,
		"disagreeing": report.Disagreeing,
		"enriched":    report.Enriched,
	}).Info("对账完成")
	return report, nil
}

func backlogEntryOf(runID string, pos int, m model.ScrapedSummary, diags []reconcile.Diagnosis) model.BacklogEntry {
	entry := model.BacklogEntry{
		RunID:       runID,
		Position:    pos,
		ExternalID:  m.ExternalID,
		MatchDate:   m.Date,
		Team1:       m.Team1,
		Team2:       m.Team2,
		VenueName:   m.VenueName,
		City:        m.City,
		VenueNation: m.VenueNation,
		TossText:    m.TossText,
		ResultText:  m.ResultText,
	}
	if len(diags) > 0 {
		if raw, err := json.Marshal(diags); err == nil {
			entry.Diagnostics = datatypes.JSON(raw)
		}
	}
	return entry
}
