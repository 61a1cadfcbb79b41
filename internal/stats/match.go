package stats

import (
	"sort"

	"CricBase/internal/model"
)

// InningsTotal 一局合计
type InningsTotal struct {
	Innings    int          `json:"innings"`
	TeamID     string       `json:"team_id"`
	Runs       int          `json:"runs"`
	Wickets    int          `json:"wickets"`
	LegalBalls int          `json:"legal_balls"`
	Overs      string       `json:"overs"`
	Extras     model.Extras `json:"extras"`
	SuperOver  bool         `json:"super_over"`
}

// MatchRollup 比赛汇总
type MatchRollup struct {
	MatchID    string         `json:"match_id"`
	Result     string         `json:"result"`
	Toss       string         `json:"toss"`
	Innings    []InningsTotal `json:"innings"`
	SuperOvers []InningsTotal `json:"super_overs"`
	TeamTotals map[string]int `json:"team_totals"` // 常规局得分 + 罚分
}

// MatchContext 汇总比赛时需要的参考数据
type MatchContext struct {
	Match      *model.Match
	TeamNames  map[string]string // team_id → 全名
	PlayerTeam map[string]string // identifier → team_id
}

func (c MatchContext) name(id *string) string {
	if id == nil {
		return ""
	}
	if n, ok := c.TeamNames[*id]; ok {
		return n
	}
	return *id
}

// SummarizeMatch 比赛级汇总：赛果文本、各局合计，超级局单列
func SummarizeMatch(mc MatchContext, ds []model.Delivery) MatchRollup {
	m := mc.Match
	out := MatchRollup{
		MatchID:    m.MatchID,
		Result:     ResultNarrative(OutcomeOf(m, mc.name(m.WinnerID))),
		Toss:       TossNarrative(mc.name(m.TossWinnerID), m.TossDecision),
		TeamTotals: map[string]int{m.Team1ID: m.Team1PrePostPens, m.Team2ID: m.Team2PrePostPens},
	}

	byInnings := make(map[int]*InningsTotal)
	for i := range ds {
		d := &ds[i]
		it, ok := byInnings[d.Innings]
		if !ok {
			it = &InningsTotal{Innings: d.Innings, TeamID: mc.PlayerTeam[d.BatterID], SuperOver: d.SuperOver}
			byInnings[d.Innings] = it
		}
		it.Runs += d.RunsTotal
		it.Extras.Byes += d.Extras.Byes
		it.Extras.LegByes += d.Extras.LegByes
		it.Extras.NoBalls += d.Extras.NoBalls
		it.Extras.Penalty += d.Extras.Penalty
		it.Extras.Wides += d.Extras.Wides
		if d.IsLegal() {
			it.LegalBalls++
		}
		for _, w := range d.Dismissals() {
			if !w.Kind.IsRetirement() {
				it.Wickets++
			}
		}
	}

	keys := make([]int, 0, len(byInnings))
	for k := range byInnings {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		it := byInnings[k]
		it.Overs = FormatOvers(it.LegalBalls, ballsPerOver(m))
		if it.SuperOver {
			out.SuperOvers = append(out.SuperOvers, *it)
			continue
		}
		out.Innings = append(out.Innings, *it)
		if it.TeamID != "" {
			out.TeamTotals[it.TeamID] += it.Runs
		}
	}
	return out
}

func ballsPerOver(m *model.Match) int {
	if m.BallsPerOver != nil && *m.BallsPerOver > 0 {
		return *m.BallsPerOver
	}
	return BallsPerOver
}
