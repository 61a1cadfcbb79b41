package stats

import (
	"CricBase/internal/model"
)

// ScoringBuckets 每球得分 0-7 的次数。越界 4/6 计入 Fours/Sixes，不在桶内
type ScoringBuckets [8]int

// BattingStats 击球统计
type BattingStats struct {
	PlayerID     string                      `json:"player_id"`
	Innings      int                         `json:"innings"`
	Outs         int                         `json:"outs"`
	NotOuts      int                         `json:"not_outs"`
	Runs         int                         `json:"runs"`
	BallsFaced   int                         `json:"balls_faced"` // 不含宽球
	LegalBalls   int                         `json:"legal_balls"` // 不含宽球和无效球
	Scoring      ScoringBuckets              `json:"scoring"`
	Fours        int                         `json:"fours"`
	Sixes        int                         `json:"sixes"`
	NoBallsFaced int                         `json:"noballs_faced"`
	WidesFaced   int                         `json:"wides_faced"`
	Dismissals   map[model.DismissalKind]int `json:"dismissals"`
	Average      *float64                    `json:"average"`
	StrikeRate   *float64                    `json:"strike_rate"`
}

// SplitSuperOver 拆出加赛（超级局）投球，生涯统计不含这部分
func SplitSuperOver(ds []model.Delivery) (regular, superOver []model.Delivery) {
	for _, d := range ds {
		if d.SuperOver {
			superOver = append(superOver, d)
		} else {
			regular = append(regular, d)
		}
	}
	return regular, superOver
}

// Batting 计算一名击球手的统计。局数按其作为击球手、非击球端或被罚出局者出现过的比赛计
func Batting(playerID string, ds []model.Delivery) BattingStats {
	st := BattingStats{PlayerID: playerID, Dismissals: map[model.DismissalKind]int{}}
	matches := make(map[string]struct{})

	for i := range ds {
		d := &ds[i]
		if d.BatterID == playerID || d.NonStrikerID == playerID {
			matches[d.MatchID] = struct{}{}
		}
		for _, w := range d.Dismissals() {
			if w.PlayerOutID != playerID {
				continue
			}
			matches[d.MatchID] = struct{}{}
			st.Dismissals[w.Kind]++
			if !w.Kind.IsRetirement() {
				st.Outs++
			}
		}
		if d.BatterID != playerID {
			continue
		}

		st.Runs += d.RunsBatter
		if d.Extras.Wides > 0 {
			st.WidesFaced++
			continue
		}
		st.BallsFaced++
		if d.Extras.NoBalls > 0 {
			st.NoBallsFaced++
		} else {
			st.LegalBalls++
		}

		switch {
		case d.RunsBatter == 4 && !d.NonBoundary:
			st.Fours++
		case d.RunsBatter == 6 && !d.NonBoundary:
			st.Sixes++
		case d.RunsBatter >= 0 && d.RunsBatter < len(st.Scoring):
			st.Scoring[d.RunsBatter]++
		}
	}

	st.Innings = len(matches)
	st.NotOuts = st.Innings - st.Outs
	if st.Outs > 0 {
		avg := round2(float64(st.Runs) / float64(st.Outs))
		st.Average = &avg
	}
	if st.LegalBalls > 0 {
		sr := round2(float64(st.Runs) * 100 / float64(st.LegalBalls))
		st.StrikeRate = &sr
	}
	return st
}
