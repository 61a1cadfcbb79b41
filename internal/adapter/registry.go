// internal/adapter/registry.go
package adapter

import (
	"fmt"
	"sort"

	"CricBase/internal/config"
	"CricBase/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// Factory 赛程源工厂函数签名
type Factory func(cfg *config.ScheduleConfig, logger *logrus.Logger) interfaces.SummarySource

// 全局工厂函数注册表，由各赛程源的 init 注册
var factoryRegistry = make(map[string]Factory)

// Register 注册赛程源工厂函数
func Register(name string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("赛程源%s的工厂函数不能为nil", name))
	}
	if _, exists := factoryRegistry[name]; exists {
		logrus.Warnf("赛程源%s已注册，将覆盖原有实现", name)
	}
	factoryRegistry[name] = factory
}

// GetFactory 获取指定赛程源的工厂函数
func GetFactory(name string) (Factory, bool) {
	factory, ok := factoryRegistry[name]
	return factory, ok
}

// ListFactories 已注册的赛程源名称（排序）
func ListFactories() []string {
	names := make([]string, 0, len(factoryRegistry))
	for n := range factoryRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
