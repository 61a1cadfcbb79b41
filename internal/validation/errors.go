package validation

import (
	"errors"
	"fmt"

	"CricBase/internal/model"
)

// Rule 被违反的约束名
type Rule string

// 投球约束，按校验顺序排列
const (
	RuleRunsMismatch              Rule = "RunsMismatch"
	RuleInvalidNonBoundaryFlag    Rule = "InvalidNonBoundaryFlag"
	RuleWicketFieldMismatch       Rule = "WicketFieldMismatch"
	RuleInvalidFielderAttribution Rule = "InvalidFielderAttribution"
	RuleExtrasConflict            Rule = "ExtrasConflict"
	RuleReviewFieldMismatch       Rule = "ReviewFieldMismatch"
	RuleSecondWicketFieldMismatch Rule = "SecondWicketFieldMismatch"
	RuleInvalidDismissalKind      Rule = "InvalidDismissalKind"
	RuleNegativeRuns              Rule = "NegativeRuns"
	RuleExtrasBreakdownMismatch   Rule = "ExtrasBreakdownMismatch"
	RuleReviewBatterMismatch      Rule = "ReviewBatterMismatch"
)

// 比赛约束
const (
	RuleTeamsIdentical           Rule = "TeamsIdentical"
	RuleDateRangeInverted        Rule = "DateRangeInverted"
	RuleWinnerNotParticipant     Rule = "WinnerNotParticipant"
	RuleMarginConflict           Rule = "MarginConflict"
	RuleOutcomeConflict          Rule = "OutcomeConflict"
	RuleTossWinnerNotParticipant Rule = "TossWinnerNotParticipant"
	RuleReviewSideNotParticipant Rule = "ReviewSideNotParticipant"
	RuleReviewUmpireNotOfficial  Rule = "ReviewUmpireNotOfficial"
)

// ValidationError 单个投球违反约束
type ValidationError struct {
	Rule   Rule
	Key    model.DeliveryKey
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("投球 %s 校验失败 [%s]: %s", e.Key, e.Rule, e.Detail)
}

// MatchError 比赛级约束失败
type MatchError struct {
	Rule    Rule
	MatchID string
	Detail  string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("比赛 %s 校验失败 [%s]: %s", e.MatchID, e.Rule, e.Detail)
}

func deliveryErr(rule Rule, key model.DeliveryKey, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Key: key, Detail: fmt.Sprintf(format, args...)}
}

func matchErr(rule Rule, matchID string, format string, args ...any) *MatchError {
	return &MatchError{Rule: rule, MatchID: matchID, Detail: fmt.Sprintf(format, args...)}
}

// RuleOf 取出错误对应的约束名，非校验错误返回空串
func RuleOf(err error) Rule {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Rule
	}
	var me *MatchError
	if errors.As(err, &me) {
		return me.Rule
	}
	return ""
}
