package schedule

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"CricBase/internal/adapter"
	"CricBase/internal/config"
	"CricBase/internal/interfaces"
	"CricBase/internal/model"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const SourceFile = "file"

func init() {
	adapter.Register(SourceFile, func(cfg *config.ScheduleConfig, logger *logrus.Logger) interfaces.SummarySource {
		return NewFileSource(cfg.CacheFile, logger)
	})
}

// cacheFile 本地缓存的赛程摘要（已清洗）
type cacheFile struct {
	Summaries []model.ScrapedSummary `yaml:"summaries"`
}

// FileSource 从 YAML 缓存读取赛程摘要
type FileSource struct {
	path   string
	logger *logrus.Logger
}

func NewFileSource(path string, logger *logrus.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

func (f *FileSource) Name() string { return SourceFile }

// FetchSummaries 只返回日期落在区间内的记录，保持文件中的顺序
func (f *FileSource) FetchSummaries(_ context.Context, period model.Period) ([]model.ScrapedSummary, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: 缓存文件 %s 不存在", interfaces.ErrSourceUnavailable, f.path)
	}
	if err != nil {
		return nil, fmt.Errorf("读取缓存文件失败: %w", err)
	}
	var cache cacheFile
	if err := yaml.Unmarshal(raw, &cache); err != nil {
		return nil, fmt.Errorf("解析缓存文件失败: %w", err)
	}

	var out []model.ScrapedSummary
	for _, s := range cache.Summaries {
		if period.Contains(s.Date) {
			out = append(out, s)
		}
	}
	f.logger.WithFields(logrus.Fields{"file": f.path, "total": len(cache.Summaries), "in_period": len(out)}).Info("读取赛程缓存")
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: 缓存中没有 %s 的记录", interfaces.ErrSourceUnavailable, period)
	}
	return out, nil
}

// WriteCache 把摘要写成 FileSource 可读取的 YAML
func WriteCache(path string, summaries []model.ScrapedSummary) error {
	raw, err := yaml.Marshal(cacheFile{Summaries: summaries})
	if err != nil {
		return fmt.Errorf("序列化缓存失败: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("写入缓存文件失败: %w", err)
	}
	return nil
}
