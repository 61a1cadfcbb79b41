package model

import (
	"time"

	"gorm.io/datatypes"
)

// ScrapedSummary 赛程源抓取的比赛摘要（不落库，仅 missing 的部分进入待补录表）
type ScrapedSummary struct {
	ExternalID  string     `json:"external_id" yaml:"external_id"`
	Date        string     `json:"date" yaml:"date"` // YYYY-MM-DD
	Team1       string     `json:"team1" yaml:"team1"`
	Team2       string     `json:"team2" yaml:"team2"`
	VenueName   string     `json:"venue_name" yaml:"venue_name"`
	City        string     `json:"city" yaml:"city"`
	VenueNation string     `json:"venue_nation" yaml:"venue_nation"`
	ResultText  string     `json:"result_text" yaml:"result_text"`
	TossText    string     `json:"toss_text" yaml:"toss_text"`
	StartTime   *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"` // 源提供的开赛时间（UTC）
}

// CanonicalSummary 已入库比赛投影成与赛程源相同的字段
type CanonicalSummary struct {
	MatchID     string
	Date        string
	Team1       string
	Team2       string
	ResultText  string
	TossText    string
	VenueNation string
	HasSchedule bool // scheduled_start 已补全
}

// BacklogEntry 待补录比赛（每次对账整体替换）
type BacklogEntry struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RunID       string         `gorm:"column:run_id;type:varchar(64);not null;index"`
	Position    int            `gorm:"column:position;not null"` // 输出顺序
	ExternalID  string         `gorm:"column:external_id;type:varchar(64);not null"`
	MatchDate   string         `gorm:"column:match_date;type:varchar(10);not null"`
	Team1       string         `gorm:"column:team1;type:varchar(128);not null"`
	Team2       string         `gorm:"column:team2;type:varchar(128);not null"`
	VenueName   string         `gorm:"column:venue_name;type:varchar(128)"`
	City        string         `gorm:"column:city;type:varchar(64)"`
	VenueNation string         `gorm:"column:venue_nation;type:varchar(64)"`
	TossText    string         `gorm:"column:toss_text;type:varchar(256)"`
	ResultText  string         `gorm:"column:result_text;type:varchar(256)"`
	Diagnostics datatypes.JSON `gorm:"column:diagnostics"` // 近似命中的说明
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (BacklogEntry) TableName() string { return "reconciliation_backlog" }

// IngestRun 一次入库运行的记录
type IngestRun struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      string         `gorm:"column:run_id;type:varchar(64);uniqueIndex;not null"`
	SourceDir  string         `gorm:"column:source_dir;type:varchar(256)"`
	Discovered int            `gorm:"column:discovered"`
	Pending    int            `gorm:"column:pending"`
	Loaded     int            `gorm:"column:loaded"`
	Skipped    int            `gorm:"column:skipped"`
	Failures   datatypes.JSON `gorm:"column:failures"`
	StartedAt  time.Time      `gorm:"column:started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at"`
}

func (IngestRun) TableName() string { return "ingest_runs" }
