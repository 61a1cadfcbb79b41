package reconcile

import "CricBase/internal/model"

// DroppedDuplicate 被去重丢弃的一行以及保留的那一行
type DroppedDuplicate struct {
	Kept    model.ScrapedSummary
	Dropped model.ScrapedSummary
}

// Collapse 同一外部 ID 出现多次时只保留第一次出现的记录。
// 赛程源按固定时区计算日期，跨月的深夜比赛会出现在相邻两个月的窗口里。
// 没有外部 ID 的记录原样保留。
func Collapse(in []model.ScrapedSummary) ([]model.ScrapedSummary, []DroppedDuplicate) {
	kept := make([]model.ScrapedSummary, 0, len(in))
	firstIdx := make(map[string]int, len(in))
	var dropped []DroppedDuplicate

	for _, s := range in {
		if s.ExternalID == "" {
			kept = append(kept, s)
			continue
		}
		if idx, ok := firstIdx[s.ExternalID]; ok {
			dropped = append(dropped, DroppedDuplicate{Kept: kept[idx], Dropped: s})
			continue
		}
		firstIdx[s.ExternalID] = len(kept)
		kept = append(kept, s)
	}
	return kept, dropped
}
