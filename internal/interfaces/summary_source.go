package interfaces

import (
	"context"
	"errors"

	"CricBase/internal/model"
)

// ErrSourceUnavailable 赛程源没有返回任何数据；对账与补全因此跳过，不算失败
var ErrSourceUnavailable = errors.New("赛程源无可用数据")

// SummarySource 赛程摘要来源（HTTP、本地缓存文件或测试桩）
type SummarySource interface {
	Name() string
	FetchSummaries(ctx context.Context, period model.Period) ([]model.ScrapedSummary, error)
}
