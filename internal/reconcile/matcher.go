package reconcile

import (
	"sort"

	"CricBase/internal/model"
)

// MismatchKind 近似命中的差异类别
type MismatchKind string

const (
	ResultMismatch      MismatchKind = "result"
	DateMismatch        MismatchKind = "date"
	TossMismatch        MismatchKind = "toss"
	VenueNationMismatch MismatchKind = "venue_nation"
)

var kindOrder = map[MismatchKind]int{ResultMismatch: 0, DateMismatch: 1, TossMismatch: 2, VenueNationMismatch: 3}

// Diagnosis 一条库内比赛与一条赛程摘要的近似命中说明
type Diagnosis struct {
	Kind           MismatchKind `json:"kind"`
	MatchID        string       `json:"match_id"`
	ExternalID     string       `json:"external_id"`
	Date           string       `json:"date"`
	Teams          string       `json:"teams"`
	CanonicalValue string       `json:"canonical_value"`
	ExternalValue  string       `json:"external_value"`

	external Tuple
}

// ExactMatch 五元组完全一致的一对记录
type ExactMatch struct {
	Tuple    Tuple
	MatchID  string
	External model.ScrapedSummary
}

// Result 对账三分区
type Result struct {
	Exact       []ExactMatch
	Missing     []model.ScrapedSummary
	Disagreeing []Diagnosis
}

type keyedExternal struct {
	tuple   Tuple
	summary model.ScrapedSummary
}

// 松弛连接：去掉一个字段后的比较键
type relaxed struct {
	a, b, c, d string
}

// Match 对比赛程摘要（已去重）与库内投影。纯函数，不因数据形态报错；
// 输出与两侧输入顺序无关。
func Match(external []model.ScrapedSummary, canonical []model.CanonicalSummary) Result {
	var res Result
	if len(external) == 0 {
		return res
	}

	ext := make([]keyedExternal, len(external))
	for i, s := range external {
		ext[i] = keyedExternal{tuple: TupleOfScraped(s), summary: s}
	}
	canon := make([]Tuple, len(canonical))
	canonByTuple := make(map[Tuple][]int, len(canonical))
	for i, c := range canonical {
		canon[i] = TupleOfCanonical(c)
		canonByTuple[canon[i]] = append(canonByTuple[canon[i]], i)
	}

	extTuples := make(map[Tuple]struct{}, len(ext))
	for _, e := range ext {
		extTuples[e.tuple] = struct{}{}
		idxs, ok := canonByTuple[e.tuple]
		if !ok {
			res.Missing = append(res.Missing, e.summary)
			continue
		}
		for _, i := range idxs {
			res.Exact = append(res.Exact, ExactMatch{Tuple: e.tuple, MatchID: canonical[i].MatchID, External: e.summary})
		}
	}

	byResult := make(map[relaxed][]int)
	byDate := make(map[relaxed][]int)
	byToss := make(map[relaxed][]int)
	byVenue := make(map[relaxed][]int)
	for i, e := range ext {
		t := e.tuple
		byResult[relaxed{t.Date, t.Teams, t.Toss, t.VenueNation}] = append(byResult[relaxed{t.Date, t.Teams, t.Toss, t.VenueNation}], i)
		byDate[relaxed{t.Teams, t.Result, t.Toss, t.VenueNation}] = append(byDate[relaxed{t.Teams, t.Result, t.Toss, t.VenueNation}], i)
		byToss[relaxed{t.Date, t.Teams, t.Result, t.VenueNation}] = append(byToss[relaxed{t.Date, t.Teams, t.Result, t.VenueNation}], i)
		byVenue[relaxed{t.Date, t.Teams, t.Result, t.Toss}] = append(byVenue[relaxed{t.Date, t.Teams, t.Result, t.Toss}], i)
	}

	for i, c := range canon {
		if _, ok := extTuples[c]; ok {
			continue
		}
		matchID := canonical[i].MatchID
		for _, j := range byResult[relaxed{c.Date, c.Teams, c.Toss, c.VenueNation}] {
			if e := ext[j].tuple; e.Result != c.Result {
				res.Disagreeing = append(res.Disagreeing, diagnose(ResultMismatch, matchID, c, ext[j], c.Result, e.Result))
			}
		}
		for _, j := range byDate[relaxed{c.Teams, c.Result, c.Toss, c.VenueNation}] {
			if e := ext[j].tuple; e.Date != c.Date {
				res.Disagreeing = append(res.Disagreeing, diagnose(DateMismatch, matchID, c, ext[j], c.Date, e.Date))
			}
		}
		for _, j := range byToss[relaxed{c.Date, c.Teams, c.Result, c.VenueNation}] {
			if e := ext[j].tuple; e.Toss != c.Toss {
				res.Disagreeing = append(res.Disagreeing, diagnose(TossMismatch, matchID, c, ext[j], c.Toss, e.Toss))
			}
		}
		for _, j := range byVenue[relaxed{c.Date, c.Teams, c.Result, c.Toss}] {
			if e := ext[j].tuple; e.VenueNation != c.VenueNation {
				res.Disagreeing = append(res.Disagreeing, diagnose(VenueNationMismatch, matchID, c, ext[j], c.VenueNation, e.VenueNation))
			}
		}
	}

	sortResult(&res)
	return res
}

func diagnose(kind MismatchKind, matchID string, c Tuple, e keyedExternal, canonValue, extValue string) Diagnosis {
	return Diagnosis{
		Kind:           kind,
		MatchID:        matchID,
		ExternalID:     e.summary.ExternalID,
		Date:           c.Date,
		Teams:          c.Teams,
		CanonicalValue: canonValue,
		ExternalValue:  extValue,
		external:       e.tuple,
	}
}

func summaryLess(a, b model.ScrapedSummary) bool {
	ta, tb := TupleOfScraped(a), TupleOfScraped(b)
	if ta != tb {
		return ta.less(tb)
	}
	if a.ExternalID != b.ExternalID {
		return a.ExternalID < b.ExternalID
	}
	if a.Team1 != b.Team1 {
		return a.Team1 < b.Team1
	}
	if a.Team2 != b.Team2 {
		return a.Team2 < b.Team2
	}
	if ua, ub := startUnix(a), startUnix(b); ua != ub {
		return ua < ub
	}
	if a.VenueName != b.VenueName {
		return a.VenueName < b.VenueName
	}
	return a.City < b.City
}

// 无开赛时间排在最前
func startUnix(s model.ScrapedSummary) int64 {
	if s.StartTime == nil {
		return -1 << 62
	}
	return s.StartTime.UnixNano()
}

func sortResult(res *Result) {
	sort.SliceStable(res.Exact, func(i, j int) bool {
		a, b := res.Exact[i], res.Exact[j]
		if a.Tuple != b.Tuple {
			return a.Tuple.less(b.Tuple)
		}
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		return summaryLess(a.External, b.External)
	})
	sort.SliceStable(res.Missing, func(i, j int) bool {
		return summaryLess(res.Missing[i], res.Missing[j])
	})
	sort.SliceStable(res.Disagreeing, func(i, j int) bool {
		a, b := res.Disagreeing[i], res.Disagreeing[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Kind != b.Kind {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		if a.ExternalID != b.ExternalID {
			return a.ExternalID < b.ExternalID
		}
		return a.ExternalValue < b.ExternalValue
	})
}

// DiagnosesFor 归集某条赛程摘要引出的诊断。外部 ID 可能为空，因此同时比对五元组
func (r Result) DiagnosesFor(s model.ScrapedSummary) []Diagnosis {
	t := TupleOfScraped(s)
	var out []Diagnosis
	for _, d := range r.Disagreeing {
		if d.ExternalID == s.ExternalID && d.external == t {
			out = append(out, d)
		}
	}
	return out
}
