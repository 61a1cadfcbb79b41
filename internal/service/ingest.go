package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"CricBase/internal/adapter/cricsheet"
	"CricBase/internal/ingest"
	"CricBase/internal/interfaces"
	"CricBase/internal/model"
	"CricBase/internal/observability"
	"CricBase/internal/repository"
	"CricBase/internal/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SkippedFile 被跳过的事件文件
type SkippedFile struct {
	File    string                    `json:"file"`
	MatchID string                    `json:"match_id"`
	Kind    observability.FileOutcome `json:"kind"`
	Rule    string                    `json:"rule,omitempty"`
	Error   string                    `json:"error"`
}

// IngestReport 一次入库运行的结果
type IngestReport struct {
	RunID      string        `json:"run_id"`
	SourceDir  string        `json:"source_dir"`
	Discovered int           `json:"discovered"`
	Pending    int           `json:"pending"`
	Loaded     int           `json:"loaded"`
	Deliveries int           `json:"deliveries"`
	Skipped    []SkippedFile `json:"skipped"`
}

// IngestService 事件文件 → 规范库。文件严格按顺序逐个处理，
// 后面的文件可能依赖前面文件解析出的球队/场馆。
type IngestService struct {
	matches  repository.MatchRepository
	refs     repository.ReferenceRepository
	runs     repository.IngestRunRepository
	resolver interfaces.ReferenceResolver
	recorder observability.Recorder
	logger   *logrus.Logger
}

func NewIngestService(db *gorm.DB, resolver interfaces.ReferenceResolver, recorder observability.Recorder, logger *logrus.Logger) *IngestService {
	if recorder == nil {
		recorder = observability.NoopRecorder{}
	}
	return &IngestService{
		matches:  repository.NewMatchRepository(db),
		refs:     repository.NewReferenceRepository(db),
		runs:     repository.NewIngestRunRepository(db),
		resolver: resolver,
		recorder: recorder,
		logger:   logger,
	}
}

// Run 处理目录中尚未入库的事件文件。单个文件的失败只跳过该文件。
func (s *IngestService) Run(ctx context.Context, dir string) (*IngestReport, error) {
	started := time.Now().UTC()
	report := &IngestReport{RunID: uuid.NewString(), SourceDir: dir, Skipped: []SkippedFile{}}

	// 1. 发现文件并过滤已入库的
	files, err := ingest.DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	ids, err := s.matches.ListMatchIDs(ctx)
	if err != nil {
		return nil, err
	}
	pending := ingest.Pending(files, ingest.IDSet(ids))
	report.Discovered = len(files)
	report.Pending = len(pending)
	s.logger.WithFields(logrus.Fields{
		"dir":        dir,
		"discovered": len(files),
		"pending":    len(pending),
	}).Info("开始入库")

	// 2. 本次运行的参考映射
	teams, err := s.refs.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	aliases, err := s.refs.ListVenueAliases(ctx)
	if err != nil {
		return nil, err
	}
	session := ingest.NewSession(teams, aliases)

	// 3. 逐个文件
	for _, file := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		n, err := s.ingestFile(ctx, session, file)
		if err != nil {
			skip := skippedOf(file, err)
			report.Skipped = append(report.Skipped, skip)
			s.recorder.RecordFile(ctx, skip.Kind)
			s.logger.WithError(err).WithFields(logrus.Fields{
				"file":     filepath.Base(file),
				"match_id": skip.MatchID,
				"kind":     skip.Kind,
				"rule":     skip.Rule,
			}).Warn("事件文件已跳过")
			continue
		}
		report.Loaded++
		report.Deliveries += n
		s.recorder.RecordFile(ctx, observability.FileLoaded)
		s.recorder.RecordDeliveries(ctx, n)
	}

	s.saveRun(ctx, report, started)
	s.logger.WithFields(logrus.Fields{
		"run_id":     report.RunID,
		"loaded":     report.Loaded,
		"skipped":    len(report.Skipped),
		"deliveries": report.Deliveries,
	}).Info("入库完成")
	return report, nil
}

func (s *IngestService) saveRun(ctx context.Context, report *IngestReport, started time.Time) {
	failures, err := json.Marshal(report.Skipped)
	if err != nil {
		s.logger.WithError(err).Warn("序列化失败列表失败")
		failures = []byte("[]")
	}
	run := &model.IngestRun{
		RunID:      report.RunID,
		SourceDir:  report.SourceDir,
		Discovered: report.Discovered,
		Pending:    report.Pending,
		Loaded:     report.Loaded,
		Skipped:    len(report.Skipped),
		Failures:   datatypes.JSON(failures),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.WithError(err).Warn("记录入库运行失败")
	}
}

// ingestFile 解析 → 解析参考数据 → 校验 → 单事务写入，返回写入的投球数
func (s *IngestService) ingestFile(ctx context.Context, session *ingest.Session, file string) (int, error) {
	matchID := ingest.MatchIDFromFilename(file)

	cm, err := cricsheet.DecodeFile(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", cricsheet.ErrMalformed, err)
	}
	draft, err := cricsheet.Extract(cm, matchID)
	if err != nil {
		return 0, err
	}

	team1ID, err := s.resolveTeam(ctx, session, draft.Sex, draft.Team1)
	if err != nil {
		return 0, err
	}
	team2ID, err := s.resolveTeam(ctx, session, draft.Sex, draft.Team2)
	if err != nil {
		return 0, err
	}
	venueID, err := s.resolveVenue(ctx, session, draft.Venue, draft.City)
	if err != nil {
		return 0, err
	}
	teamIDs := map[string]string{draft.Team1: team1ID, draft.Team2: team2ID}

	m := draft.Match
	m.Team1ID = team1ID
	m.Team2ID = team2ID
	m.VenueID = venueID
	m.TossWinnerID = teamRef(teamIDs, draft.TossWinner)
	m.WinnerID = teamRef(teamIDs, draft.Winner)
	if err := validation.ValidateMatch(&m); err != nil {
		return 0, err
	}

	// 任意一球校验失败则整场拒收
	deliveries := make([]model.Delivery, 0, len(draft.Deliveries))
	for _, rec := range draft.Deliveries {
		if rec.HasReview {
			if ref := teamRef(teamIDs, rec.ReviewByTeamID); ref != nil {
				rec.ReviewByTeamID = *ref
			}
		}
		d, err := validation.ValidateDelivery(rec)
		if err != nil {
			return 0, err
		}
		deliveries = append(deliveries, d)
	}
	if err := validation.ValidateGroup(&m, deliveries); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(draft.Players))
	players := make([]model.MatchPlayer, 0, len(draft.Players))
	for _, p := range draft.Players {
		if _, dup := seen[p.Identifier]; dup {
			continue
		}
		seen[p.Identifier] = struct{}{}
		players = append(players, model.MatchPlayer{MatchID: matchID, Identifier: p.Identifier, TeamID: teamIDs[p.TeamName]})
	}

	group := &repository.MatchGroup{Match: &m, People: draft.People, Players: players, Deliveries: deliveries}
	if err := s.matches.SaveMatchGroup(ctx, group); err != nil {
		return 0, err
	}
	return len(deliveries), nil
}

// teamRef 队名换成 team_id；不是对阵双方时保留原名，交给校验报错
func teamRef(teamIDs map[string]string, name string) *string {
	if name == "" {
		return nil
	}
	if id, ok := teamIDs[name]; ok {
		return &id
	}
	return &name
}

func (s *IngestService) resolveTeam(ctx context.Context, session *ingest.Session, sex model.Sex, name string) (string, error) {
	if id, ok := session.Team(sex, name); ok {
		return id, nil
	}
	id, err := s.resolver.ResolveTeam(ctx, interfaces.TeamQuery{Sex: sex, Nation: name})
	if err != nil {
		var refErr *interfaces.ReferenceResolutionError
		if !errors.As(err, &refErr) {
			err = &interfaces.ReferenceResolutionError{Kind: interfaces.RefTeam, Name: name, Sex: sex, Err: err}
		}
		return "", err
	}
	session.AddTeam(sex, name, id)
	return id, nil
}

func (s *IngestService) resolveVenue(ctx context.Context, session *ingest.Session, name, city string) (string, error) {
	if id, ok := session.Venue(name, city); ok {
		return id, nil
	}
	id, err := s.resolver.ResolveVenue(ctx, interfaces.VenueQuery{Name: name, City: city})
	if err != nil {
		var refErr *interfaces.ReferenceResolutionError
		if !errors.As(err, &refErr) {
			err = &interfaces.ReferenceResolutionError{Kind: interfaces.RefVenue, Name: name, City: city, Err: err}
		}
		return "", err
	}
	session.AddVenue(name, city, id)
	return id, nil
}

// skippedOf 按错误类型归类
func skippedOf(file string, err error) SkippedFile {
	skip := SkippedFile{
		File:    filepath.Base(file),
		MatchID: ingest.MatchIDFromFilename(file),
		Kind:    observability.FileError,
		Error:   err.Error(),
	}
	var (
		verr     *validation.ValidationError
		merr     *validation.MatchError
		conflict *repository.IntegrityConflictError
		refErr   *interfaces.ReferenceResolutionError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &merr):
		skip.Kind = observability.FileValidation
		skip.Rule = string(validation.RuleOf(err))
	case errors.As(err, &conflict):
		skip.Kind = observability.FileIntegrity
	case errors.As(err, &refErr):
		skip.Kind = observability.FileReference
	case errors.Is(err, cricsheet.ErrMalformed):
		skip.Kind = observability.FileMalformed
	}
	return skip
}
