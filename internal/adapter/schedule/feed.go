package schedule

// feedResponse 赛程接口返回
type feedResponse struct {
	Data struct {
		Matches []feedMatch `json:"matches"`
	} `json:"data"`
}

// feedMatch 赛程接口中的一场比赛（只取用到的字段）
type feedMatch struct {
	MatchID        string `json:"match_id"`
	CompTypeID     string `json:"comp_type_id"`
	CompType       string `json:"comp_type"`
	MatchDateLocal string `json:"match_date_local"`
	StartDate      string `json:"start_date"` // GMT 开赛时间，可能缺失
	TeamAID        string `json:"teama_id"`
	TeamA          string `json:"teama"`
	TeamBID        string `json:"teamb_id"`
	TeamB          string `json:"teamb"`
	Venue          string `json:"venue"`
	Country        string `json:"country"`
	TossWonBy      string `json:"toss_won_by"`
	TossElectedTo  string `json:"toss_elected_to"`
	MatchStatus    string `json:"match_status"`
	MatchResult    string `json:"match_result"`
	WinningTeamID  string `json:"winning_team_id"`
	WinningMargin  string `json:"winning_margin"`
}
