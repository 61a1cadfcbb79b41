package validation

import (
	"CricBase/internal/model"
)

// 第二出局只允许的方式（退场 + 跑出局等复合事件）
var secondWicketKinds = map[model.DismissalKind]struct{}{
	model.KindRunOut:        {},
	model.KindTimedOut:      {},
	model.KindRetiredHurt:   {},
	model.KindRetiredOut:    {},
	model.KindRetiredNotOut: {},
}

// ValidateDelivery 校验原始投球记录，通过则返回结构化的 Delivery。
// 约束按固定顺序检查，返回第一个失败的 *ValidationError。
func ValidateDelivery(rec model.DeliveryRecord) (model.Delivery, error) {
	key := rec.DeliveryKey

	// 1. 总分
	if rec.RunsTotal != rec.RunsBatter+rec.RunsExtras {
		return model.Delivery{}, deliveryErr(RuleRunsMismatch, key,
			"runs_total=%d, runs_batter=%d, runs_extras=%d", rec.RunsTotal, rec.RunsBatter, rec.RunsExtras)
	}

	// 2. 非越界标记
	boundaryScore := rec.RunsBatter == 4 || rec.RunsBatter == 6
	if rec.NonBoundary != nil && !boundaryScore {
		return model.Delivery{}, deliveryErr(RuleInvalidNonBoundaryFlag, key,
			"runs_batter=%d 不允许 non_boundary", rec.RunsBatter)
	}

	// 3. 出局字段成组出现
	if rec.HasWicket != (rec.PlayerOutID != "") || rec.HasWicket != (rec.HowOut != "") {
		return model.Delivery{}, deliveryErr(RuleWicketFieldMismatch, key,
			"wicket=%t, player_out=%q, how_out=%q", rec.HasWicket, rec.PlayerOutID, rec.HowOut)
	}

	// 4. 外野手归属
	kind := model.DismissalKind(rec.HowOut)
	fielders := [3]string{rec.Fielder1ID, rec.Fielder2ID, rec.Fielder3ID}
	if rec.HasWicket && kind == model.KindCaughtAndBowled && fielders[0] == "" {
		fielders[0] = rec.BowlerID
	}
	if err := checkFielders(key, kind, fielders); err != nil {
		return model.Delivery{}, err
	}

	// 5. 宽球与无效球互斥
	if rec.Extras.Wides > 0 && rec.Extras.NoBalls > 0 {
		return model.Delivery{}, deliveryErr(RuleExtrasConflict, key,
			"wides=%d, noballs=%d", rec.Extras.Wides, rec.Extras.NoBalls)
	}

	// 6. 复审字段
	if err := checkReview(rec); err != nil {
		return model.Delivery{}, err
	}

	// 7. 第二出局
	if rec.HasSecondWicket {
		if rec.PlayerOut2ID == "" || rec.HowOut2 == "" || !rec.HasWicket {
			return model.Delivery{}, deliveryErr(RuleSecondWicketFieldMismatch, key,
				"wicket2 需要 player_out2、how_out2 和第一出局, player_out2=%q, how_out2=%q, wicket=%t",
				rec.PlayerOut2ID, rec.HowOut2, rec.HasWicket)
		}
	} else if rec.PlayerOut2ID != "" || rec.HowOut2 != "" {
		return model.Delivery{}, deliveryErr(RuleSecondWicketFieldMismatch, key,
			"未标记 wicket2 但存在 player_out2=%q, how_out2=%q", rec.PlayerOut2ID, rec.HowOut2)
	}

	if rec.HasWicket && !kind.Valid() {
		return model.Delivery{}, deliveryErr(RuleInvalidDismissalKind, key, "未知出局方式 %q", rec.HowOut)
	}
	kind2 := model.DismissalKind(rec.HowOut2)
	if rec.HasSecondWicket {
		if _, ok := secondWicketKinds[kind2]; !ok {
			return model.Delivery{}, deliveryErr(RuleInvalidDismissalKind, key, "第二出局不允许 %q", rec.HowOut2)
		}
	}

	if rec.RunsBatter < 0 || rec.RunsExtras < 0 || rec.Extras.Byes < 0 || rec.Extras.LegByes < 0 ||
		rec.Extras.NoBalls < 0 || rec.Extras.Penalty < 0 || rec.Extras.Wides < 0 {
		return model.Delivery{}, deliveryErr(RuleNegativeRuns, key, "得分不能为负: %+v", rec.Extras)
	}

	if rec.Extras.Sum() != rec.RunsExtras {
		return model.Delivery{}, deliveryErr(RuleExtrasBreakdownMismatch, key,
			"extras 分项合计 %d, runs_extras=%d", rec.Extras.Sum(), rec.RunsExtras)
	}

	if rec.HasReview && rec.ReviewBatterID != "" && rec.ReviewBatterID != rec.BatterID {
		return model.Delivery{}, deliveryErr(RuleReviewBatterMismatch, key,
			"review_batter=%q, batter=%q", rec.ReviewBatterID, rec.BatterID)
	}

	d := model.Delivery{
		DeliveryKey:  key,
		SuperOver:    rec.SuperOver,
		BatterID:     rec.BatterID,
		BowlerID:     rec.BowlerID,
		NonStrikerID: rec.NonStrikerID,
		RunsBatter:   rec.RunsBatter,
		RunsExtras:   rec.RunsExtras,
		RunsTotal:    rec.RunsTotal,
		NonBoundary:  boundaryScore && rec.NonBoundary != nil && *rec.NonBoundary,
		Extras:       rec.Extras,
	}
	if rec.HasWicket {
		w := &model.Wicket{PlayerOutID: rec.PlayerOutID, Kind: kind}
		for _, f := range fielders {
			if f == "" {
				break
			}
			w.Fielders = append(w.Fielders, f)
		}
		d.Wicket = w
	}
	if rec.HasSecondWicket {
		d.SecondWicket = &model.SecondWicket{PlayerOutID: rec.PlayerOut2ID, Kind: kind2}
	}
	if rec.HasReview {
		d.Review = &model.Review{
			ByTeamID:       rec.ReviewByTeamID,
			UmpireDecision: rec.UmpireDecision,
			UmpireID:       rec.ReviewUmpireID,
			Result:         rec.ReviewResult,
			BatterID:       rec.ReviewBatterID,
			UmpiresCall:    rec.UmpiresCall != nil && *rec.UmpiresCall,
		}
	}
	return d, nil
}

// checkFielders 第 k 位只有在第 k-1 位已填且出局方式允许时才能填；
// 接杀和擒杀必须有第一外野手
func checkFielders(key model.DeliveryKey, kind model.DismissalKind, fielders [3]string) error {
	slots := kind.FielderSlots()
	for i, f := range fielders {
		if f == "" {
			continue
		}
		if i > 0 && fielders[i-1] == "" {
			return deliveryErr(RuleInvalidFielderAttribution, key, "fielder%d 已填但 fielder%d 为空", i+1, i)
		}
		if i >= slots {
			return deliveryErr(RuleInvalidFielderAttribution, key, "出局方式 %q 不允许 fielder%d", kind, i+1)
		}
	}
	if (kind == model.KindCaught || kind == model.KindStumped) && fielders[0] == "" {
		return deliveryErr(RuleInvalidFielderAttribution, key, "出局方式 %q 缺少 fielder1", kind)
	}
	return nil
}

func checkReview(rec model.DeliveryRecord) error {
	present := 0
	for _, v := range []string{rec.ReviewByTeamID, rec.UmpireDecision, rec.ReviewUmpireID, rec.ReviewResult} {
		if v != "" {
			present++
		}
	}
	if rec.HasReview && present != 4 {
		return deliveryErr(RuleReviewFieldMismatch, rec.DeliveryKey,
			"review 字段不完整: by=%q, ump_decision=%q, umpire=%q, result=%q",
			rec.ReviewByTeamID, rec.UmpireDecision, rec.ReviewUmpireID, rec.ReviewResult)
	}
	if !rec.HasReview && (present > 0 || rec.ReviewBatterID != "" || rec.UmpiresCall != nil) {
		return deliveryErr(RuleReviewFieldMismatch, rec.DeliveryKey, "未标记 review 但存在复审字段")
	}
	return nil
}
