package validation

import (
	"CricBase/internal/model"
)

// ValidateMatch 比赛级约束
func ValidateMatch(m *model.Match) error {
	if m.Team1ID == m.Team2ID {
		return matchErr(RuleTeamsIdentical, m.MatchID, "team1=team2=%q", m.Team1ID)
	}
	if m.EndDate.Before(m.StartDate) {
		return matchErr(RuleDateRangeInverted, m.MatchID, "start=%s, end=%s",
			m.StartDate.Format(model.DateLayout), m.EndDate.Format(model.DateLayout))
	}
	if m.WinnerID != nil && !m.IsParticipant(*m.WinnerID) {
		return matchErr(RuleWinnerNotParticipant, m.MatchID, "winner=%q 不是参赛方", *m.WinnerID)
	}

	margins := 0
	for _, set := range []bool{m.ByRuns, m.ByWickets, m.ByOther} {
		if set {
			margins++
		}
	}
	if margins > 1 {
		return matchErr(RuleMarginConflict, m.MatchID, "by_runs=%t, by_wickets=%t, by_other=%t",
			m.ByRuns, m.ByWickets, m.ByOther)
	}

	switch {
	case m.WinnerID != nil && m.NoResult:
		return matchErr(RuleOutcomeConflict, m.MatchID, "no_result 的比赛不能有胜者")
	case m.NoResult && m.Tie:
		return matchErr(RuleOutcomeConflict, m.MatchID, "no_result 与 tie 同时成立")
	case m.WinnerID == nil && !m.NoResult && !m.Tie:
		return matchErr(RuleOutcomeConflict, m.MatchID, "没有胜者但既非 no_result 也非 tie")
	case m.WinnerID != nil && m.Tie && !m.SuperOver && !m.BowlOut:
		return matchErr(RuleOutcomeConflict, m.MatchID, "平局未经加赛却有胜者 %q", *m.WinnerID)
	case margins > 0 && m.WinnerID == nil:
		return matchErr(RuleOutcomeConflict, m.MatchID, "有胜负差却没有胜者")
	}

	if m.TossWinnerID != nil && !m.IsParticipant(*m.TossWinnerID) {
		return matchErr(RuleTossWinnerNotParticipant, m.MatchID, "toss_winner=%q 不是参赛方", *m.TossWinnerID)
	}
	return nil
}

// ValidateGroup 比赛确定后对其全部投球做的跨表检查
func ValidateGroup(m *model.Match, deliveries []model.Delivery) error {
	hasOfficials := false
	for _, role := range model.OfficialRoles {
		if m.Official(role) != nil {
			hasOfficials = true
			break
		}
	}
	for i := range deliveries {
		r := deliveries[i].Review
		if r == nil {
			continue
		}
		if !m.IsParticipant(r.ByTeamID) {
			return matchErr(RuleReviewSideNotParticipant, m.MatchID, "投球 %s 复审方 %q 不是参赛方",
				deliveries[i].DeliveryKey, r.ByTeamID)
		}
		if hasOfficials && !m.IsOfficial(r.UmpireID) {
			return matchErr(RuleReviewUmpireNotOfficial, m.MatchID, "投球 %s 复审裁判 %q 不在本场官员中",
				deliveries[i].DeliveryKey, r.UmpireID)
		}
	}
	return nil
}
