package stats

import (
	"fmt"
	"math"

	"CricBase/internal/model"
)

// BallsPerOver 统计口径的每轮球数
const BallsPerOver = 6

// BowlingStats 投球统计
type BowlingStats struct {
	PlayerID     string                      `json:"player_id"`
	Matches      int                         `json:"matches"`
	LegalBalls   int                         `json:"legal_balls"`
	Overs        string                      `json:"overs"`
	RunsConceded int                         `json:"runs_conceded"` // 击球得分 + 宽球 + 无效球
	Wickets      int                         `json:"wickets"`
	WicketKinds  map[model.DismissalKind]int `json:"wicket_kinds"`
	Dots         int                         `json:"dots"`
	FoursHit     int                         `json:"fours_conceded"`
	SixesHit     int                         `json:"sixes_conceded"`
	Wides        int                         `json:"wides"`
	NoBalls      int                         `json:"noballs"`
	Byes         int                         `json:"byes"`
	LegByes      int                         `json:"legbyes"`
	Economy      *float64                    `json:"economy"`
	Average      *float64                    `json:"average"`
	StrikeRate   *float64                    `json:"strike_rate"`
}

// Bowling 计算一名投手的统计。只有投手可归功的出局方式计入 Wickets
func Bowling(playerID string, ds []model.Delivery) BowlingStats {
	st := BowlingStats{PlayerID: playerID, WicketKinds: map[model.DismissalKind]int{}}
	matches := make(map[string]struct{})

	for i := range ds {
		d := &ds[i]
		if d.BowlerID != playerID {
			continue
		}
		matches[d.MatchID] = struct{}{}

		conceded := d.RunsBatter + d.Extras.Wides + d.Extras.NoBalls
		st.RunsConceded += conceded
		st.Wides += d.Extras.Wides
		st.NoBalls += d.Extras.NoBalls
		st.Byes += d.Extras.Byes
		st.LegByes += d.Extras.LegByes
		if d.IsLegal() {
			st.LegalBalls++
			if conceded == 0 {
				st.Dots++
			}
		}
		if !d.NonBoundary {
			switch d.RunsBatter {
			case 4:
				st.FoursHit++
			case 6:
				st.SixesHit++
			}
		}

		for _, w := range d.Dismissals() {
			if w.Kind.CreditsBowler() {
				st.Wickets++
				st.WicketKinds[w.Kind]++
			}
		}
	}

	st.Matches = len(matches)
	st.Overs = FormatOvers(st.LegalBalls, BallsPerOver)
	if st.LegalBalls > 0 {
		eco := round2(float64(st.RunsConceded) * BallsPerOver / float64(st.LegalBalls))
		st.Economy = &eco
	}
	if st.Wickets > 0 {
		avg := round2(float64(st.RunsConceded) / float64(st.Wickets))
		sr := round2(float64(st.LegalBalls) / float64(st.Wickets))
		st.Average = &avg
		st.StrikeRate = &sr
	}
	return st
}

// FormatOvers 合法球数 → "轮.球"
func FormatOvers(legalBalls, ballsPerOver int) string {
	if ballsPerOver <= 0 {
		ballsPerOver = BallsPerOver
	}
	return fmt.Sprintf("%d.%d", legalBalls/ballsPerOver, legalBalls%ballsPerOver)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
