package model

import (
	"fmt"
	"time"
)

// YearMonth 年月
type YearMonth struct {
	Year  int
	Month time.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// First 当月第一天（UTC）
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last 当月最后一天（UTC）
func (ym YearMonth) Last() time.Time {
	return ym.First().AddDate(0, 1, -1)
}

func (ym YearMonth) index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// ParseYearMonth 解析 YYYY-MM
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("年月格式应为 YYYY-MM: %q", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Period 对账的月份区间（含首尾）
type Period struct {
	From YearMonth
	To   YearMonth
}

// ParsePeriod 解析 from/to（YYYY-MM），to 为空时等于 from
func ParsePeriod(from, to string) (Period, error) {
	f, err := ParseYearMonth(from)
	if err != nil {
		return Period{}, err
	}
	t := f
	if to != "" {
		if t, err = ParseYearMonth(to); err != nil {
			return Period{}, err
		}
	}
	if t.index() < f.index() {
		return Period{}, fmt.Errorf("区间结束 %s 早于开始 %s", t, f)
	}
	return Period{From: f, To: t}, nil
}

// Months 按顺序列出区间内每个月
func (p Period) Months() []YearMonth {
	var out []YearMonth
	for i := p.From.index(); i <= p.To.index(); i++ {
		out = append(out, YearMonth{Year: i / 12, Month: time.Month(i%12 + 1)})
	}
	return out
}

// Contains 日期（YYYY-MM-DD）是否落在区间内
func (p Period) Contains(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	ym := YearMonth{Year: t.Year(), Month: t.Month()}
	return ym.index() >= p.From.index() && ym.index() <= p.To.index()
}

func (p Period) String() string {
	return p.From.String() + ".." + p.To.String()
}
