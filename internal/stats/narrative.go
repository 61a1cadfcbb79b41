package stats

import (
	"fmt"
	"strings"

	"CricBase/internal/model"
)

// DLSRenameDate 该日期起 D/L 方法改称 DLS
const DLSRenameDate = "2014-11-01"

// NoTossText 无挑边信息
const NoTossText = "Toss Info Missing/No Toss"

// Outcome 生成赛果文本所需的字段
type Outcome struct {
	Date          string // YYYY-MM-DD
	WinnerName    string
	ByRuns        bool
	MarginRuns    *int
	ByWickets     bool
	MarginWickets *int
	ByOther       bool
	MarginOther   *string
	NoResult      bool
	Tie           bool
	DLS           bool
}

// OutcomeOf 从比赛行取出赛果字段
func OutcomeOf(m *model.Match, winnerName string) Outcome {
	return Outcome{
		Date:          m.StartDate.Format(model.DateLayout),
		WinnerName:    winnerName,
		ByRuns:        m.ByRuns,
		MarginRuns:    m.VictoryMarginRuns,
		ByWickets:     m.ByWickets,
		MarginWickets: m.VictoryMarginWickets,
		ByOther:       m.ByOther,
		MarginOther:   m.VictoryMarginOther,
		NoResult:      m.NoResult,
		Tie:           m.Tie,
		DLS:           m.DLS,
	}
}

// DLSSuffix 按日期返回 " (DLS method)" 或 " (D/L method)"
func DLSSuffix(date string) string {
	if date >= DLSRenameDate {
		return " (DLS method)"
	}
	return " (D/L method)"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ResultNarrative 赛果文本，与赛程源的措辞一致
func ResultNarrative(o Outcome) string {
	if o.NoResult {
		return "No Result"
	}
	if o.Tie {
		if o.WinnerName != "" {
			return fmt.Sprintf("Tie (%s won the Super Over)", o.WinnerName)
		}
		return "Match Tied"
	}
	if o.WinnerName == "" {
		return "No Result"
	}

	var margin string
	switch {
	case o.ByRuns && o.MarginRuns != nil:
		margin = plural(*o.MarginRuns, "run")
	case o.ByWickets && o.MarginWickets != nil:
		margin = plural(*o.MarginWickets, "wicket")
	case o.ByOther && o.MarginOther != nil:
		margin = strings.TrimSpace(*o.MarginOther)
	}
	if margin == "" {
		return o.WinnerName + " won"
	}
	suffix := ""
	if o.DLS {
		suffix = DLSSuffix(o.Date)
	}
	return fmt.Sprintf("%s won by %s%s", o.WinnerName, margin, suffix)
}

// TossNarrative 挑边文本
func TossNarrative(winnerName, decision string) string {
	if winnerName == "" {
		return NoTossText
	}
	choice := "field"
	if strings.Contains(strings.ToLower(decision), "bat") {
		choice = "bat"
	}
	return fmt.Sprintf("%s won the toss and chose to %s", winnerName, choice)
}
