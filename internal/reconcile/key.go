package reconcile

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"CricBase/internal/model"
)

// pairSep 队名之间的分隔符，规范化后的队名中不会出现
const pairSep = " | "

var folder = cases.Fold()

// NormalizeName 队名规范化：NFKC + 大小写折叠 + 空白压缩
func NormalizeName(name string) string {
	s := norm.NFKC.String(name)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// TeamPairKey 与主客顺序无关的双方键
func TeamPairKey(team1, team2 string) string {
	pair := []string{NormalizeName(team1), NormalizeName(team2)}
	sort.Strings(pair)
	return pair[0] + pairSep + pair[1]
}

// NormalizeDate 统一为 YYYY-MM-DD，无法识别时原样返回（去空白）
func NormalizeDate(date string) string {
	d := strings.TrimSpace(date)
	if len(d) >= len(model.DateLayout) {
		if t, err := time.Parse(model.DateLayout, d[:len(model.DateLayout)]); err == nil {
			return t.Format(model.DateLayout)
		}
	}
	return d
}

// Key 比赛自然键：日期 + 双方
type Key struct {
	Date  string
	Teams string
}

func (k Key) String() string {
	return k.Date + " " + k.Teams
}

// KeyOf 从任一数据源的字段构造自然键
func KeyOf(date, team1, team2 string) Key {
	return Key{Date: NormalizeDate(date), Teams: TeamPairKey(team1, team2)}
}

// Tuple 对账比较的五元组。赛果、挑边文本与场馆国家按原文精确比较
type Tuple struct {
	Date        string
	Teams       string
	Result      string
	Toss        string
	VenueNation string
}

// Key 五元组中的自然键部分
func (t Tuple) Key() Key {
	return Key{Date: t.Date, Teams: t.Teams}
}

// TupleOfScraped 赛程摘要 → 五元组
func TupleOfScraped(s model.ScrapedSummary) Tuple {
	k := KeyOf(s.Date, s.Team1, s.Team2)
	return Tuple{
		Date:        k.Date,
		Teams:       k.Teams,
		Result:      s.ResultText,
		Toss:        s.TossText,
		VenueNation: strings.TrimSpace(s.VenueNation),
	}
}

// TupleOfCanonical 库内比赛投影 → 五元组
func TupleOfCanonical(c model.CanonicalSummary) Tuple {
	k := KeyOf(c.Date, c.Team1, c.Team2)
	return Tuple{
		Date:        k.Date,
		Teams:       k.Teams,
		Result:      c.ResultText,
		Toss:        c.TossText,
		VenueNation: strings.TrimSpace(c.VenueNation),
	}
}

func (t Tuple) less(o Tuple) bool {
	if t.Date != o.Date {
		return t.Date < o.Date
	}
	if t.Teams != o.Teams {
		return t.Teams < o.Teams
	}
	if t.Result != o.Result {
		return t.Result < o.Result
	}
	if t.Toss != o.Toss {
		return t.Toss < o.Toss
	}
	return t.VenueNation < o.VenueNation
}
