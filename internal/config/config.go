package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	Ingest   IngestConfig   `mapstructure:"ingest"`   // 逐球数据入库配置
	Schedule ScheduleConfig `mapstructure:"schedule"` // 赛程源配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`            // postgres / sqlite
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（sqlite 为文件路径）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	LogLevel        string        `mapstructure:"log_level"`         // gorm 日志：silent/error/warn/info
}

// IngestConfig 入库配置
type IngestConfig struct {
	CricsheetDir string `mapstructure:"cricsheet_dir"` // 事件文件目录
	Resolver     string `mapstructure:"resolver"`      // 未知球队/场馆的解析方式：lookup / auto
}

// ScheduleConfig 赛程源配置
type ScheduleConfig struct {
	Source        string   `mapstructure:"source"`          // http / file
	BaseURL       string   `mapstructure:"base_url"`        // 赛程接口地址
	ClientID      string   `mapstructure:"client_id"`       // 接口 client_id
	CacheFile     string   `mapstructure:"cache_file"`      // file 源的 YAML 路径
	Timeout       int      `mapstructure:"timeout"`         // 请求超时（秒）
	Proxy         string   `mapstructure:"proxy"`           // 代理地址
	UserAgent     string   `mapstructure:"user_agent"`      // 请求 UA
	PageSize      int      `mapstructure:"page_size"`       // 每页条数
	CompTypeIDs   []string `mapstructure:"comp_type_ids"`   // 保留的赛事类型（3=男子T20I，13=女子T20I）
	ThrottleMinMs int      `mapstructure:"throttle_min_ms"` // 两次请求最小间隔
	ThrottleMaxMs int      `mapstructure:"throttle_max_ms"` // 两次请求最大间隔
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"` // debug/info/warn/error
}

// DefaultConfigFile 默认配置文件
const DefaultConfigFile = "./config/config.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("ingest.cricsheet_dir", "./data/cricsheet")
	v.SetDefault("ingest.resolver", "lookup")
	v.SetDefault("schedule.source", "http")
	v.SetDefault("schedule.base_url", "https://assets-icc.sportz.io/cricket/v1/schedule")
	v.SetDefault("schedule.timeout", 15)
	v.SetDefault("schedule.page_size", 400)
	v.SetDefault("schedule.comp_type_ids", []string{"3", "13"})
	v.SetDefault("schedule.throttle_min_ms", 1000)
	v.SetDefault("schedule.throttle_max_ms", 3000)
	v.SetDefault("log.level", "info")
}

// LoadConfig 加载配置文件（默认 config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig(path string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	if path == "" {
		path = DefaultConfigFile
	}
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("CRICBASE_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CRICBASE_SCHEDULE_PROXY"); v != "" {
		cfg.Schedule.Proxy = v
	}
	if v := os.Getenv("CRICBASE_SCHEDULE_CLIENT_ID"); v != "" {
		cfg.Schedule.ClientID = v
	}
	if v := os.Getenv("CRICBASE_CRICSHEET_DIR"); v != "" {
		cfg.Ingest.CricsheetDir = v
	}
}

// Validate 检查枚举类配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	switch c.Ingest.Resolver {
	case "lookup", "auto":
	default:
		return fmt.Errorf("不支持的解析方式: %q", c.Ingest.Resolver)
	}
	switch c.Schedule.Source {
	case "http", "file":
	default:
		return fmt.Errorf("不支持的赛程源: %q", c.Schedule.Source)
	}
	if c.Schedule.ThrottleMaxMs < c.Schedule.ThrottleMinMs {
		return fmt.Errorf("schedule.throttle_max_ms(%d) 小于 throttle_min_ms(%d)",
			c.Schedule.ThrottleMaxMs, c.Schedule.ThrottleMinMs)
	}
	return nil
}

// GetGORMConfig 按 log_level 构造 gorm 配置
func (d *DatabaseConfig) GetGORMConfig() *gorm.Config {
	level := logger.Warn
	switch strings.ToLower(d.LogLevel) {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "info":
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}
