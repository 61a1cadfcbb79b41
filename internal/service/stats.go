package service

import (
	"context"
	"errors"
	"fmt"

	"CricBase/internal/repository"
	"CricBase/internal/stats"

	"gorm.io/gorm"
)

// ErrNotFound 球员或比赛不存在
var ErrNotFound = errors.New("记录不存在")

// BattingReport 生涯击球统计，超级局单列
type BattingReport struct {
	Name      string             `json:"name"`
	Career    stats.BattingStats `json:"career"`
	SuperOver stats.BattingStats `json:"super_over"`
}

// BowlingReport 生涯投球统计，超级局单列
type BowlingReport struct {
	Name      string             `json:"name"`
	Career    stats.BowlingStats `json:"career"`
	SuperOver stats.BowlingStats `json:"super_over"`
}

// StatsService 规范库上的只读统计
type StatsService struct {
	matches    repository.MatchRepository
	deliveries repository.DeliveryRepository
	refs       repository.ReferenceRepository
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		matches:    repository.NewMatchRepository(db),
		deliveries: repository.NewDeliveryRepository(db),
		refs:       repository.NewReferenceRepository(db),
	}
}

func (s *StatsService) playerName(ctx context.Context, playerID string) (string, error) {
	people, err := s.refs.GetPeople(ctx, []string{playerID})
	if err != nil {
		return "", err
	}
	if len(people) == 0 {
		return "", fmt.Errorf("%w: 球员 %s", ErrNotFound, playerID)
	}
	return people[0].Name, nil
}

func (s *StatsService) Batting(ctx context.Context, playerID string) (*BattingReport, error) {
	name, err := s.playerName(ctx, playerID)
	if err != nil {
		return nil, err
	}
	ds, err := s.deliveries.ListDeliveries(ctx, repository.DeliveryFilter{PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	regular, super := stats.SplitSuperOver(ds)
	return &BattingReport{
		Name:      name,
		Career:    stats.Batting(playerID, regular),
		SuperOver: stats.Batting(playerID, super),
	}, nil
}

func (s *StatsService) Bowling(ctx context.Context, playerID string) (*BowlingReport, error) {
	name, err := s.playerName(ctx, playerID)
	if err != nil {
		return nil, err
	}
	ds, err := s.deliveries.ListDeliveries(ctx, repository.DeliveryFilter{PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	regular, super := stats.SplitSuperOver(ds)
	return &BowlingReport{
		Name:      name,
		Career:    stats.Bowling(playerID, regular),
		SuperOver: stats.Bowling(playerID, super),
	}, nil
}

func (s *StatsService) MatchSummary(ctx context.Context, matchID string) (*stats.MatchRollup, error) {
	m, err := s.matches.GetMatch(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 比赛 %s", ErrNotFound, matchID)
	}
	if err != nil {
		return nil, err
	}
	teams, err := s.refs.GetTeams(ctx, []string{m.Team1ID, m.Team2ID})
	if err != nil {
		return nil, err
	}
	players, err := s.matches.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	ds, err := s.deliveries.ListDeliveries(ctx, repository.DeliveryFilter{MatchID: matchID})
	if err != nil {
		return nil, err
	}

	mc := stats.MatchContext{
		Match:      m,
		TeamNames:  make(map[string]string, len(teams)),
		PlayerTeam: make(map[string]string, len(players)),
	}
	for _, t := range teams {
		mc.TeamNames[t.TeamID] = t.FullName
	}
	for _, p := range players {
		mc.PlayerTeam[p.Identifier] = p.TeamID
	}
	rollup := stats.SummarizeMatch(mc, ds)
	return &rollup, nil
}
