package schedule

import (
	"strings"
	"time"

	"CricBase/internal/model"
	"CricBase/internal/stats"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeMap 西印度群岛按城市落到具体岛国，英国城市落到本土国家
var placeMap = map[string]string{
	"Bridgetown":    "Barbados",
	"Gros Islet":    "Saint Lucia",
	"Kingston":      "Jamaica",
	"Port Of Spain": "Trinidad and Tobago",
	"Tarouba":       "Trinidad and Tobago",
	"North Sound":   "Antigua and Barbuda",
	"Coolidge":      "Antigua and Barbuda",
	"Kingstown":     "Saint Vincent and the Grenadines",
	"Providence":    "Guyana",
	"Guyana":        "Guyana",
	"Saint Peters":  "Antigua and Barbuda",
	"Cardiff":       "Wales",
	"Episkopi":      "Cyprus",
	"Oslo":          "Norway",
}

var nationRename = map[string]string{
	"USA": "United States of America",
}

var titleCaser = cases.Title(language.English)

// splitVenue "Kensington Oval, Bridgetown" → 场馆名、城市（城市按标题大小写）
func splitVenue(raw string) (name, city string) {
	parts := strings.SplitN(raw, ",", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		city = strings.TrimSpace(titleCaser.String(strings.TrimSpace(parts[1])))
	}
	return name, city
}

// venueNation 国家名清洗
func venueNation(country, city string) string {
	nation := strings.TrimSpace(country)
	if v, ok := nationRename[nation]; ok {
		nation = v
	}
	if n, ok := placeMap[city]; ok {
		return n
	}
	return nation
}

// sexOf 赛事类型名带 w（Women）即女子
func sexOf(compType string) model.Sex {
	if strings.Contains(strings.ToLower(compType), "w") {
		return model.SexFemale
	}
	return model.SexMale
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	model.DateLayout,
}

func parseFeedTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// localDate 当地比赛日期 YYYY-MM-DD
func localDate(s string) (string, bool) {
	t, ok := parseFeedTime(s)
	if !ok {
		return "", false
	}
	return t.Format(model.DateLayout), true
}

// tossText 与库内挑边文本同一措辞
func tossText(teams map[string]string, m feedMatch) string {
	return stats.TossNarrative(teams[m.TossWonBy], m.TossElectedTo)
}

// resultText 与库内赛果文本同一措辞
func resultText(teams map[string]string, m feedMatch, date string) string {
	if m.MatchStatus == "No Result" || m.MatchStatus == "Abandoned" {
		return "No Result"
	}
	winner := teams[m.WinningTeamID]
	if m.MatchResult == "Tie" || strings.Contains(strings.ToLower(m.MatchResult), "super over") {
		if winner != "" {
			return "Tie (" + winner + " won the Super Over)"
		}
		return "Match Tied"
	}

	margin := strings.NewReplacer("(DLS method)", "", "(D/L method)", "").Replace(m.WinningMargin)
	margin = strings.TrimSpace(margin)
	if winner != "" && margin != "" {
		suffix := ""
		if strings.Contains(m.MatchResult, "DLS") || strings.Contains(m.MatchResult, "D/L") {
			suffix = stats.DLSSuffix(date)
		}
		return winner + " won by " + margin + suffix
	}
	if m.MatchResult == "Match Abandoned" {
		return "No Result"
	}
	return m.MatchResult
}
