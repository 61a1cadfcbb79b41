package cricsheet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"CricBase/internal/model"
)

// ErrMalformed 事件文件缺少必需字段
var ErrMalformed = errors.New("事件文件结构不完整")

// PlayerEntry 出场球员（球队仍是事件源中的队名）
type PlayerEntry struct {
	Identifier string
	TeamName   string
}

// MatchGroupDraft 一个事件文件抽取出的比赛组。球队和场馆仍是名字，
// 由入库服务解析为标识后再校验；复审方 ReviewByTeamID 暂存队名。
type MatchGroupDraft struct {
	MatchID    string
	Sex        model.Sex
	Team1      string
	Team2      string
	TossWinner string
	Winner     string
	Venue      string
	City       string

	Match      model.Match
	People     []model.Person
	Players    []PlayerEntry
	Deliveries []model.DeliveryRecord
}

// Extract 把类型化的事件文件转为比赛组草稿
func Extract(cm *model.CricsheetMatch, matchID string) (*MatchGroupDraft, error) {
	info := &cm.Info
	if len(info.Teams) != 2 {
		return nil, fmt.Errorf("%w: teams 数量为 %d", ErrMalformed, len(info.Teams))
	}
	if len(info.Dates) == 0 {
		return nil, fmt.Errorf("%w: 缺少 dates", ErrMalformed)
	}
	sex := model.Sex(strings.ToLower(info.Gender))
	if sex != model.SexMale && sex != model.SexFemale {
		return nil, fmt.Errorf("%w: 未知 gender %q", ErrMalformed, info.Gender)
	}
	start, err := time.Parse(model.DateLayout, info.Dates[0])
	if err != nil {
		return nil, fmt.Errorf("%w: 开始日期 %q", ErrMalformed, info.Dates[0])
	}
	end, err := time.Parse(model.DateLayout, info.Dates[len(info.Dates)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: 结束日期 %q", ErrMalformed, info.Dates[len(info.Dates)-1])
	}

	reg := info.Registry
	draft := &MatchGroupDraft{
		MatchID:    matchID,
		Sex:        sex,
		Team1:      info.Teams[0],
		Team2:      info.Teams[1],
		TossWinner: info.Toss.Winner,
		Venue:      VenueName(info.Venue),
		City:       strings.TrimSpace(info.City),
	}

	m := model.Match{
		MatchID:         matchID,
		MatchType:       info.MatchType,
		MatchTypeNumber: info.MatchTypeNumber,
		Overs:           info.Overs,
		BallsPerOver:    info.BallsPerOver,
		TeamType:        info.TeamType,
		Sex:             sex,
		StartDate:       start,
		EndDate:         end,
		Season:          string(info.Season),
		TossDecision:    info.Toss.Decision,
	}
	if info.Event != nil {
		m.EventName = info.Event.Name
		m.EventMatchNumber = info.Event.MatchNumber
	}

	off := info.Officials
	m.SetOfficial(model.RoleUmpire1, reg.ID(nth(off.Umpires, 0)))
	m.SetOfficial(model.RoleUmpire2, reg.ID(nth(off.Umpires, 1)))
	m.SetOfficial(model.RoleTVUmpire, reg.ID(nth(off.TVUmpires, 0)))
	m.SetOfficial(model.RoleMatchReferee, reg.ID(nth(off.MatchReferees, 0)))
	m.SetOfficial(model.RoleReserveUmpire, reg.ID(nth(off.ReserveUmpires, 0)))
	if id := reg.ID(nth(info.PlayerOfMatch, 0)); id != "" {
		m.PlayerOfMatchID = &id
	}

	draft.Winner = applyOutcome(&m, info.Outcome)
	applyInningsInfo(&m, cm.Innings, draft.Team1)
	draft.Match = m

	draft.People = people(reg)
	for _, team := range info.Teams {
		for _, name := range info.Players[team] {
			if id := reg.ID(name); id != "" {
				draft.Players = append(draft.Players, PlayerEntry{Identifier: id, TeamName: team})
			}
		}
	}
	draft.Deliveries = deliveries(cm, matchID)
	return draft, nil
}

// VenueName 场馆字段可能带城市（"Eden Gardens, Kolkata"），只取逗号前部分
func VenueName(raw string) string {
	if idx := strings.Index(raw, ","); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

func nth(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

func isDLS(method string) bool {
	return method == "D/L" || method == "DLS"
}

// applyOutcome 填充赛果字段，返回胜者队名
func applyOutcome(m *model.Match, o model.CricsheetOutcome) string {
	winner := o.Eliminator
	if winner == "" {
		winner = o.BowlOut
	}
	if winner == "" {
		winner = o.Winner
	}

	if v, ok := o.By["runs"]; ok {
		m.ByRuns = true
		m.VictoryMarginRuns = &v
	}
	if v, ok := o.By["wickets"]; ok {
		m.ByWickets = true
		m.VictoryMarginWickets = &v
	}
	m.NoResult = o.Result == "no result"
	m.Tie = o.Result == "tie"
	m.SuperOver = o.HasEliminator()
	m.BowlOut = o.BowlOut != ""
	m.DLS = isDLS(o.Method)
	if o.Method != "" && !m.DLS && !m.ByRuns && !m.ByWickets {
		m.ByOther = true
		method := o.Method
		m.VictoryMarginOther = &method
	}
	return winner
}

// applyInningsInfo 罚分与强制力量局
func applyInningsInfo(m *model.Match, innings []model.CricsheetInnings, team1 string) {
	regular := 0
	for _, inn := range innings {
		if inn.SuperOver {
			continue
		}
		if inn.PenaltyRuns != nil {
			pens := inn.PenaltyRuns.Pre + inn.PenaltyRuns.Post
			if inn.Team == team1 {
				m.Team1PrePostPens += pens
			} else {
				m.Team2PrePostPens += pens
			}
		}
		if len(inn.Powerplays) > 0 {
			from, to := inn.Powerplays[0].From.String(), inn.Powerplays[0].To.String()
			switch regular {
			case 0:
				m.PowerplayStartI1, m.PowerplayEndI1 = &from, &to
			case 1:
				m.PowerplayStartI2, m.PowerplayEndI2 = &from, &to
			}
		}
		regular++
	}
}

func people(reg model.CricsheetRegistry) []model.Person {
	out := make([]model.Person, 0, len(reg.People))
	for name, id := range reg.People {
		out = append(out, model.Person{Identifier: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

func fielderID(f model.CricsheetFielder, reg model.CricsheetRegistry) string {
	if f.Substitute {
		return model.SubstituteFielder
	}
	return reg.ID(f.Name)
}

// deliveries 局/轮/球按出现位置从 1 编号
func deliveries(cm *model.CricsheetMatch, matchID string) []model.DeliveryRecord {
	reg := cm.Info.Registry
	var out []model.DeliveryRecord
	for i, inn := range cm.Innings {
		for j, over := range inn.Overs {
			for k, d := range over.Deliveries {
				rec := model.DeliveryRecord{
					DeliveryKey:  model.DeliveryKey{MatchID: matchID, Innings: i + 1, Over: j + 1, Ball: k + 1},
					SuperOver:    inn.SuperOver,
					BatterID:     reg.ID(d.Batter),
					BowlerID:     reg.ID(d.Bowler),
					NonStrikerID: reg.ID(d.NonStriker),
					RunsBatter:   d.Runs.Batter,
					RunsExtras:   d.Runs.Extras,
					RunsTotal:    d.Runs.Total,
					Extras: model.Extras{
						Byes:    d.Extras.Byes,
						LegByes: d.Extras.LegByes,
						NoBalls: d.Extras.NoBalls,
						Penalty: d.Extras.Penalty,
						Wides:   d.Extras.Wides,
					},
				}
				if d.Runs.Batter == 4 || d.Runs.Batter == 6 {
					nb := d.Runs.NonBoundary
					rec.NonBoundary = &nb
				}

				if len(d.Wickets) > 0 {
					w := d.Wickets[0]
					rec.HasWicket = true
					rec.PlayerOutID = reg.ID(w.PlayerOut)
					rec.HowOut = w.Kind
					slots := []*string{&rec.Fielder1ID, &rec.Fielder2ID, &rec.Fielder3ID}
					for n, f := range w.Fielders {
						if n >= len(slots) {
							break
						}
						*slots[n] = fielderID(f, reg)
					}
				}
				if len(d.Wickets) > 1 {
					w := d.Wickets[1]
					rec.HasSecondWicket = true
					rec.PlayerOut2ID = reg.ID(w.PlayerOut)
					rec.HowOut2 = w.Kind
				}

				if r := d.Review; r != nil {
					applyReview(&rec, r, inn.Team, reg)
				}
				out = append(out, rec)
			}
		}
	}
	return out
}

// applyReview 复审：击球方申请说明原判出局；"struck down" 表示维持原判
func applyReview(rec *model.DeliveryRecord, r *model.CricsheetReview, battingTeam string, reg model.CricsheetRegistry) {
	byBatting := r.By == battingTeam
	rec.HasReview = true
	rec.ReviewByTeamID = r.By
	rec.ReviewUmpireID = reg.ID(r.Umpire)
	if byBatting {
		rec.UmpireDecision = "out"
		rec.ReviewBatterID = rec.BatterID
	} else {
		rec.UmpireDecision = "not out"
	}
	switch {
	case r.Struck():
		rec.ReviewResult = rec.UmpireDecision
	case byBatting:
		rec.ReviewResult = "not out"
	default:
		rec.ReviewResult = "out"
	}
	uc := r.UmpiresCall
	rec.UmpiresCall = &uc
}
