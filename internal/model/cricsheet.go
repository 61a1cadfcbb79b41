package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString 兼容字符串或数字的 JSON 字段（如 season: "2023/24" 或 2024）
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// CricsheetMatch 逐球事件文件的类型化结构
type CricsheetMatch struct {
	Meta    CricsheetMeta      `json:"meta"`
	Info    CricsheetInfo      `json:"info"`
	Innings []CricsheetInnings `json:"innings"`
}

type CricsheetMeta struct {
	DataVersion string `json:"data_version"`
	Created     string `json:"created"`
	Revision    int    `json:"revision"`
}

type CricsheetInfo struct {
	BallsPerOver    *int                `json:"balls_per_over"`
	City            string              `json:"city"`
	Dates           []string            `json:"dates"`
	Event           *CricsheetEvent     `json:"event"`
	Gender          string              `json:"gender"`
	MatchType       string              `json:"match_type"`
	MatchTypeNumber *int                `json:"match_type_number"`
	Officials       CricsheetOfficials  `json:"officials"`
	Outcome         CricsheetOutcome    `json:"outcome"`
	Overs           *int                `json:"overs"`
	PlayerOfMatch   []string            `json:"player_of_match"`
	Players         map[string][]string `json:"players"`
	Registry        CricsheetRegistry   `json:"registry"`
	Season          FlexString          `json:"season"`
	TeamType        string              `json:"team_type"`
	Teams           []string            `json:"teams"`
	Toss            CricsheetToss       `json:"toss"`
	Venue           string              `json:"venue"`
}

type CricsheetEvent struct {
	Name        string `json:"name"`
	MatchNumber *int   `json:"match_number"`
}

type CricsheetOfficials struct {
	MatchReferees  []string `json:"match_referees"`
	ReserveUmpires []string `json:"reserve_umpires"`
	TVUmpires      []string `json:"tv_umpires"`
	Umpires        []string `json:"umpires"`
}

type CricsheetOutcome struct {
	Winner     string         `json:"winner"`
	Eliminator string         `json:"eliminator"`
	BowlOut    string         `json:"bowl_out"`
	Result     string         `json:"result"` // "no result" / "tie" / "draw"
	Method     string         `json:"method"` // "D/L" 等
	By         map[string]int `json:"by"`     // runs / wickets / innings
}

// HasEliminator 是否由超级局决出
func (o CricsheetOutcome) HasEliminator() bool { return o.Eliminator != "" }

type CricsheetRegistry struct {
	People map[string]string `json:"people"`
}

// ID 按名字查注册标识
func (r CricsheetRegistry) ID(name string) string {
	if name == "" {
		return ""
	}
	return r.People[name]
}

type CricsheetToss struct {
	Decision string `json:"decision"`
	Winner   string `json:"winner"`
}

type CricsheetInnings struct {
	Team        string               `json:"team"`
	Overs       []CricsheetOver      `json:"overs"`
	Powerplays  []CricsheetPowerplay `json:"powerplays"`
	PenaltyRuns *CricsheetPenalty    `json:"penalty_runs"`
	SuperOver   bool                 `json:"super_over"`
}

type CricsheetPowerplay struct {
	From json.Number `json:"from"`
	To   json.Number `json:"to"`
	Type string      `json:"type"`
}

type CricsheetPenalty struct {
	Pre  int `json:"pre"`
	Post int `json:"post"`
}

type CricsheetOver struct {
	Over       int                  `json:"over"`
	Deliveries []CricsheetDelivery `json:"deliveries"`
}

type CricsheetDelivery struct {
	Batter     string            `json:"batter"`
	Bowler     string            `json:"bowler"`
	NonStriker string            `json:"non_striker"`
	Runs       CricsheetRuns     `json:"runs"`
	Extras     CricsheetExtras   `json:"extras"`
	Wickets    []CricsheetWicket `json:"wickets"`
	Review     *CricsheetReview  `json:"review"`
}

type CricsheetRuns struct {
	Batter      int  `json:"batter"`
	Extras      int  `json:"extras"`
	Total       int  `json:"total"`
	NonBoundary bool `json:"non_boundary"`
}

type CricsheetExtras struct {
	Byes    int `json:"byes"`
	LegByes int `json:"legbyes"`
	NoBalls int `json:"noballs"`
	Penalty int `json:"penalty"`
	Wides   int `json:"wides"`
}

type CricsheetWicket struct {
	PlayerOut string             `json:"player_out"`
	Kind      string             `json:"kind"`
	Fielders  []CricsheetFielder `json:"fielders"`
}

type CricsheetFielder struct {
	Name       string `json:"name"`
	Substitute bool   `json:"substitute"`
}

type CricsheetReview struct {
	By          string `json:"by"`
	Umpire      string `json:"umpire"`
	Batter      string `json:"batter"`
	Decision    string `json:"decision"` // "struck down" / "upheld"
	UmpiresCall bool   `json:"umpires_call"`
}

// Struck 复审未成功
func (r *CricsheetReview) Struck() bool {
	return strings.EqualFold(r.Decision, "struck down")
}
