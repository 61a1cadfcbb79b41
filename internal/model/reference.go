package model

import "time"

// Sex 球队/比赛性别
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Suffix 球队全名后缀（India Men / India Women）
func (s Sex) Suffix() string {
	if s == SexFemale {
		return "Women"
	}
	return "Men"
}

// Letter 球队编号中的性别字母
func (s Sex) Letter() string {
	if s == SexFemale {
		return "F"
	}
	return "M"
}

// Team 球队参考数据
type Team struct {
	TeamID       string    `gorm:"column:team_id;primaryKey;type:varchar(32)"`
	Format       string    `gorm:"column:format;type:varchar(8);not null"`
	FullName     string    `gorm:"column:full_name;type:varchar(128);not null"` // 如 India Men
	ShortName    *string   `gorm:"column:short_name;type:varchar(64)"`
	Abbreviation string    `gorm:"column:abbreviation;type:varchar(16);not null"`
	Nickname     *string   `gorm:"column:nickname;type:varchar(64)"`
	Sex          Sex       `gorm:"column:sex;type:varchar(8);not null;index:idx_teams_nation_sex"`
	Nation       string    `gorm:"column:nation;type:varchar(64);not null;index:idx_teams_nation_sex"` // 事件源中的队名即国家名
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Team) TableName() string { return "teams" }

// Venue 场馆参考数据
type Venue struct {
	VenueID    string    `gorm:"column:venue_id;primaryKey;type:varchar(64)"`
	VenueName  string    `gorm:"column:venue_name;type:varchar(128);not null;uniqueIndex:uq_venue_name_city_nation"`
	City       string    `gorm:"column:city;type:varchar(64);not null;uniqueIndex:uq_venue_name_city_nation"`
	Nation     string    `gorm:"column:nation;type:varchar(64);not null;uniqueIndex:uq_venue_name_city_nation"`
	NationCode string    `gorm:"column:nation_code;type:varchar(8);not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Venue) TableName() string { return "venues" }

// VenueAlias 事件源里出现的场馆写法 → 规范场馆
type VenueAlias struct {
	AliasName   string    `gorm:"column:alias_name;primaryKey;type:varchar(128)"`
	AliasCity   string    `gorm:"column:alias_city;primaryKey;type:varchar(64)"`
	AliasNation string    `gorm:"column:alias_nation;primaryKey;type:varchar(64)"`
	VenueID     string    `gorm:"column:venue_id;type:varchar(64);not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Venue *Venue `gorm:"foreignKey:VenueID;references:VenueID" json:"-"`
}

func (VenueAlias) TableName() string { return "venue_aliases" }

// VenueKey 别名查找键："场馆名 | 城市"
func VenueKey(name, city string) string {
	return name + " | " + city
}

// Person 人员登记（球员与裁判共用标识）
type Person struct {
	Identifier string    `gorm:"column:identifier;primaryKey;type:varchar(32)"`
	Name       string    `gorm:"column:name;type:varchar(128);not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Person) TableName() string { return "registry" }
