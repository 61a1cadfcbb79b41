package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"CricBase/internal/adapter"
	"CricBase/internal/config"
	"CricBase/internal/interfaces"
	"CricBase/internal/model"
	"CricBase/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const SourceHTTP = "http"

func init() {
	adapter.Register(SourceHTTP, func(cfg *config.ScheduleConfig, logger *logrus.Logger) interfaces.SummarySource {
		return NewHTTPSource(cfg, logger)
	})
}

// HTTPSource 按自然月分窗口拉取赛程接口
type HTTPSource struct {
	cfg        *config.ScheduleConfig
	httpClient *http.Client
	compTypes  map[string]struct{}
	logger     *logrus.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewHTTPSource(cfg *config.ScheduleConfig, logger *logrus.Logger) *HTTPSource {
	compTypes := make(map[string]struct{}, len(cfg.CompTypeIDs))
	for _, id := range cfg.CompTypeIDs {
		compTypes[id] = struct{}{}
	}
	return &HTTPSource{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		compTypes:  compTypes,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

func (h *HTTPSource) Name() string { return SourceHTTP }

// FetchSummaries 逐月请求；单月失败记录日志后继续，全部为空时返回 ErrSourceUnavailable
func (h *HTTPSource) FetchSummaries(ctx context.Context, period model.Period) ([]model.ScrapedSummary, error) {
	var out []model.ScrapedSummary
	months := period.Months()
	for i, ym := range months {
		if i > 0 {
			if err := h.sleep(ctx, h.throttle()); err != nil {
				return nil, err
			}
		}
		matches, err := h.fetchMonth(ctx, ym)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			h.logger.WithError(err).WithField("month", ym.String()).Error("拉取赛程失败")
			continue
		}
		summaries := h.transform(matches)
		h.logger.WithFields(logrus.Fields{"month": ym.String(), "count": len(summaries)}).Info("拉取赛程完成")
		out = append(out, summaries...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSourceUnavailable, period)
	}
	return out, nil
}

func (h *HTTPSource) monthURL(ym model.YearMonth) (string, error) {
	u, err := url.Parse(h.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("赛程接口地址无效: %w", err)
	}
	q := u.Query()
	q.Set("client_id", h.cfg.ClientID)
	q.Set("feed_format", "json")
	q.Set("lang", "en")
	q.Set("from_date", ym.First().Format("20060102"))
	q.Set("to_date", ym.Last().Format("20060102"))
	q.Set("is_deleted", "false")
	q.Set("pagination", "true")
	q.Set("page_number", "1")
	q.Set("page_size", strconv.Itoa(h.cfg.PageSize))
	q.Set("is_upcoming", "false")
	q.Set("is_live", "false")
	q.Set("is_recent", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (h *HTTPSource) fetchMonth(ctx context.Context, ym model.YearMonth) ([]feedMatch, error) {
	reqURL, err := h.monthURL(ym)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求赛程接口失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			h.logger.WithError(err).Warn("关闭赛程响应体失败")
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("赛程接口返回状态码 %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("解析赛程响应失败: %w", err)
	}
	return body.Data.Matches, nil
}

// transform 过滤赛事类型并转换为统一摘要
func (h *HTTPSource) transform(matches []feedMatch) []model.ScrapedSummary {
	kept := make([]feedMatch, 0, len(matches))
	for _, m := range matches {
		if _, ok := h.compTypes[m.CompTypeID]; ok {
			kept = append(kept, m)
		}
	}

	// 球队 id → "India Men"，同一 id 以第一次出现为准
	teams := make(map[string]string)
	for _, m := range kept {
		suffix := " " + sexOf(m.CompType).Suffix()
		if _, ok := teams[m.TeamAID]; !ok && m.TeamAID != "" {
			teams[m.TeamAID] = m.TeamA + suffix
		}
		if _, ok := teams[m.TeamBID]; !ok && m.TeamBID != "" {
			teams[m.TeamBID] = m.TeamB + suffix
		}
	}

	out := make([]model.ScrapedSummary, 0, len(kept))
	for _, m := range kept {
		date, ok := localDate(m.MatchDateLocal)
		if !ok {
			h.logger.WithFields(logrus.Fields{"external_id": m.MatchID, "date": m.MatchDateLocal}).Warn("比赛日期无法解析，跳过")
			continue
		}
		name, city := splitVenue(m.Venue)
		s := model.ScrapedSummary{
			ExternalID:  m.MatchID,
			Date:        date,
			Team1:       teams[m.TeamAID],
			Team2:       teams[m.TeamBID],
			VenueName:   name,
			City:        city,
			VenueNation: venueNation(m.Country, city),
			ResultText:  resultText(teams, m, date),
			TossText:    tossText(teams, m),
		}
		if t, ok := parseFeedTime(m.StartDate); ok {
			utc := t.UTC()
			s.StartTime = &utc
		}
		out = append(out, s)
	}
	return out
}

func (h *HTTPSource) throttle() time.Duration {
	lo, hi := h.cfg.ThrottleMinMs, h.cfg.ThrottleMaxMs
	if hi <= lo {
		return time.Duration(lo) * time.Millisecond
	}
	return time.Duration(lo+rand.Intn(hi-lo+1)) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
