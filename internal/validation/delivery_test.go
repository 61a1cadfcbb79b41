package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CricBase/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func baseRecord() model.DeliveryRecord {
	return model.DeliveryRecord{
		DeliveryKey:  model.DeliveryKey{MatchID: "1001", Innings: 1, Over: 1, Ball: 1},
		BatterID:     "bat1",
		BowlerID:     "bowl1",
		NonStrikerID: "bat2",
		RunsBatter:   1,
		RunsTotal:    1,
	}
}

func TestValidateDelivery_Accepts(t *testing.T) {
	d, err := ValidateDelivery(baseRecord())
	require.NoError(t, err)
	assert.Equal(t, 1, d.RunsTotal)
	assert.Nil(t, d.Wicket)
	assert.Nil(t, d.SecondWicket)
	assert.Nil(t, d.Review)
}

func TestValidateDelivery_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *model.DeliveryRecord)
		rule   Rule
	}{
		{"总分不等", func(r *model.DeliveryRecord) { r.RunsTotal = 3 }, RuleRunsMismatch},
		{"非 4/6 的 non_boundary", func(r *model.DeliveryRecord) { r.NonBoundary = boolPtr(true) }, RuleInvalidNonBoundaryFlag},
		{"非 4/6 即使为 false 也不允许", func(r *model.DeliveryRecord) { r.NonBoundary = boolPtr(false) }, RuleInvalidNonBoundaryFlag},
		{"有出局标记缺方式", func(r *model.DeliveryRecord) {
			r.HasWicket = true
			r.PlayerOutID = "bat1"
		}, RuleWicketFieldMismatch},
		{"无出局标记却有出局球员", func(r *model.DeliveryRecord) { r.PlayerOutID = "bat1" }, RuleWicketFieldMismatch},
		{"bowled 不允许外野手", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut, r.Fielder1ID = true, "bat1", "bowled", "f1"
		}, RuleInvalidFielderAttribution},
		{"caught 第二外野手", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", "caught"
			r.Fielder1ID, r.Fielder2ID = "f1", "f2"
		}, RuleInvalidFielderAttribution},
		{"run out 跳过第一位", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", "run out"
			r.Fielder2ID = "f2"
		}, RuleInvalidFielderAttribution},
		{"caught 缺外野手", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", "caught"
		}, RuleInvalidFielderAttribution},
		{"无出局却有外野手", func(r *model.DeliveryRecord) { r.Fielder1ID = "f1" }, RuleInvalidFielderAttribution},
		{"宽球加无效球", func(r *model.DeliveryRecord) {
			r.RunsBatter, r.RunsExtras, r.RunsTotal = 0, 2, 2
			r.Extras = model.Extras{Wides: 1, NoBalls: 1}
		}, RuleExtrasConflict},
		{"复审缺字段", func(r *model.DeliveryRecord) {
			r.HasReview = true
			r.ReviewByTeamID, r.UmpireDecision, r.ReviewResult = "IND", "out", "out"
		}, RuleReviewFieldMismatch},
		{"无复审却有 umpires_call", func(r *model.DeliveryRecord) { r.UmpiresCall = boolPtr(false) }, RuleReviewFieldMismatch},
		{"第二出局缺方式", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", "retired hurt"
			r.HasSecondWicket, r.PlayerOut2ID = true, "bat2"
		}, RuleSecondWicketFieldMismatch},
		{"第二出局没有第一出局", func(r *model.DeliveryRecord) {
			r.HasSecondWicket, r.PlayerOut2ID, r.HowOut2 = true, "bat2", "run out"
		}, RuleSecondWicketFieldMismatch},
		{"未标记第二出局却有字段", func(r *model.DeliveryRecord) { r.HowOut2 = "run out" }, RuleSecondWicketFieldMismatch},
		{"未知出局方式", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", "bored out"
		}, RuleInvalidDismissalKind},
		{"第二出局方式不允许", func(r *model.DeliveryRecord) {
			r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", "bowled"
			r.HasSecondWicket, r.PlayerOut2ID, r.HowOut2 = true, "bat2", "lbw"
		}, RuleInvalidDismissalKind},
		{"负分", func(r *model.DeliveryRecord) {
			r.RunsBatter, r.RunsExtras, r.RunsTotal = -1, 0, -1
		}, RuleNegativeRuns},
		{"extras 分项不符", func(r *model.DeliveryRecord) {
			r.RunsBatter, r.RunsExtras, r.RunsTotal = 0, 1, 1
		}, RuleExtrasBreakdownMismatch},
		{"复审击球手不是 striker", func(r *model.DeliveryRecord) {
			r.HasReview = true
			r.ReviewByTeamID, r.UmpireDecision, r.ReviewUmpireID, r.ReviewResult = "IND", "out", "ump1", "out"
			r.ReviewBatterID = "bat2"
		}, RuleReviewBatterMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := baseRecord()
			tc.mutate(&rec)
			_, err := ValidateDelivery(rec)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.rule, ve.Rule)
			assert.Equal(t, rec.DeliveryKey, ve.Key)
			assert.Equal(t, tc.rule, RuleOf(err))
		})
	}
}

func TestValidateDelivery_RuleOrder(t *testing.T) {
	// 同时违反 1 和 5，先报 1
	rec := baseRecord()
	rec.RunsTotal = 10
	rec.Extras = model.Extras{Wides: 1, NoBalls: 1}
	_, err := ValidateDelivery(rec)
	assert.Equal(t, RuleRunsMismatch, RuleOf(err))
}

func TestValidateDelivery_CaughtAndBowledCreditsBowler(t *testing.T) {
	rec := baseRecord()
	rec.RunsBatter, rec.RunsTotal = 0, 0
	rec.HasWicket, rec.PlayerOutID, rec.HowOut = true, "bat1", "caught and bowled"

	d, err := ValidateDelivery(rec)
	require.NoError(t, err)
	require.NotNil(t, d.Wicket)
	assert.Equal(t, []string{"bowl1"}, d.Wicket.Fielders)
	assert.Equal(t, model.KindCaughtAndBowled, d.Wicket.Kind)
}

func TestValidateDelivery_RunOutThreeFielders(t *testing.T) {
	rec := baseRecord()
	rec.HasWicket, rec.PlayerOutID, rec.HowOut = true, "bat2", "run out"
	rec.Fielder1ID, rec.Fielder2ID, rec.Fielder3ID = "f1", model.SubstituteFielder, "f3"

	d, err := ValidateDelivery(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", model.SubstituteFielder, "f3"}, d.Wicket.Fielders)
}

func TestValidateDelivery_NonBoundarySix(t *testing.T) {
	rec := baseRecord()
	rec.RunsBatter, rec.RunsTotal = 6, 6
	rec.NonBoundary = boolPtr(true)

	d, err := ValidateDelivery(rec)
	require.NoError(t, err)
	assert.True(t, d.NonBoundary)
}

func TestValidateDelivery_ReviewAndSecondWicket(t *testing.T) {
	rec := baseRecord()
	rec.RunsBatter, rec.RunsTotal = 0, 0
	rec.HasWicket, rec.PlayerOutID, rec.HowOut = true, "bat1", "retired out"
	rec.HasSecondWicket, rec.PlayerOut2ID, rec.HowOut2 = true, "bat2", "run out"
	rec.HasReview = true
	rec.ReviewByTeamID, rec.UmpireDecision, rec.ReviewUmpireID, rec.ReviewResult = "IND", "out", "ump1", "not out"
	rec.ReviewBatterID = "bat1"
	rec.UmpiresCall = boolPtr(true)

	d, err := ValidateDelivery(rec)
	require.NoError(t, err)
	require.NotNil(t, d.SecondWicket)
	assert.Equal(t, model.KindRunOut, d.SecondWicket.Kind)
	require.NotNil(t, d.Review)
	assert.True(t, d.Review.UmpiresCall)
	assert.Len(t, d.Dismissals(), 2)
}

// 已通过的投球必须满足的性质
func TestValidateDelivery_Properties(t *testing.T) {
	var records []model.DeliveryRecord
	for batter := 0; batter <= 7; batter++ {
		for wides := 0; wides <= 2; wides++ {
			for noballs := 0; noballs <= 1; noballs++ {
				for _, f := range [][3]string{{}, {"a"}, {"a", "b"}, {"", "b"}, {"a", "b", "c"}} {
					for _, kind := range []string{"", "caught", "run out", "bowled"} {
						r := baseRecord()
						r.RunsBatter = batter
						r.Extras = model.Extras{Wides: wides, NoBalls: noballs}
						r.RunsExtras = wides + noballs
						r.RunsTotal = batter + wides + noballs
						r.Fielder1ID, r.Fielder2ID, r.Fielder3ID = f[0], f[1], f[2]
						if kind != "" {
							r.HasWicket, r.PlayerOutID, r.HowOut = true, "bat1", kind
						}
						records = append(records, r)
					}
				}
			}
		}
	}

	accepted := 0
	for _, r := range records {
		d, err := ValidateDelivery(r)
		if err != nil {
			continue
		}
		accepted++
		assert.Equal(t, d.RunsBatter+d.RunsExtras, d.RunsTotal)
		if d.Extras.Wides > 0 {
			assert.Zero(t, d.Extras.NoBalls)
		}
		if d.Extras.NoBalls > 0 {
			assert.Zero(t, d.Extras.Wides)
		}
		if d.Wicket != nil && len(d.Wicket.Fielders) > 1 {
			assert.Equal(t, model.KindRunOut, d.Wicket.Kind)
			for _, f := range d.Wicket.Fielders {
				assert.NotEmpty(t, f)
			}
		}
	}
	assert.Positive(t, accepted)
}
