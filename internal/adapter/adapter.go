package adapter

import (
	"fmt"

	"CricBase/internal/config"
	"CricBase/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// NewSummarySource 按 schedule.source 从注册表创建赛程源
func NewSummarySource(cfg *config.ScheduleConfig, logger *logrus.Logger) (interfaces.SummarySource, error) {
	factory, ok := GetFactory(cfg.Source)
	if !ok {
		return nil, fmt.Errorf("未注册的赛程源: %s（已注册：%v）", cfg.Source, ListFactories())
	}
	src := factory(cfg, logger)
	if src == nil {
		return nil, fmt.Errorf("赛程源%s的工厂函数返回nil", cfg.Source)
	}
	if src.Name() != cfg.Source {
		logger.WithFields(logrus.Fields{
			"config_source":  cfg.Source,
			"adapter_source": src.Name(),
		}).Warn("赛程源名称与配置不一致")
	}
	logger.WithField("source", src.Name()).Info("赛程源初始化成功")
	return src, nil
}
