package model

import "time"

// OfficialRole 比赛官员角色（固定枚举）
type OfficialRole string

const (
	RoleUmpire1       OfficialRole = "umpire1"
	RoleUmpire2       OfficialRole = "umpire2"
	RoleTVUmpire      OfficialRole = "tv_umpire"
	RoleMatchReferee  OfficialRole = "match_referee"
	RoleReserveUmpire OfficialRole = "reserve_umpire"
)

// OfficialRoles 所有官员角色，顺序固定
var OfficialRoles = []OfficialRole{RoleUmpire1, RoleUmpire2, RoleTVUmpire, RoleMatchReferee, RoleReserveUmpire}

// DateLayout 比赛日期统一格式
const DateLayout = "2006-01-02"

// Match 单场比赛（由一个事件文件生成，之后只允许补充 scheduled_start）
type Match struct {
	MatchID              string     `gorm:"column:match_id;primaryKey;type:varchar(64)"` // 事件文件名（不含扩展名）
	MatchType            string     `gorm:"column:match_type;type:varchar(16);not null"`
	MatchTypeNumber      *int       `gorm:"column:match_type_number"`
	Overs                *int       `gorm:"column:overs"`
	BallsPerOver         *int       `gorm:"column:balls_per_over"`
	PowerplayStartI1     *string    `gorm:"column:powerplay_starti1;type:varchar(8)"`
	PowerplayEndI1       *string    `gorm:"column:powerplay_endi1;type:varchar(8)"`
	PowerplayStartI2     *string    `gorm:"column:powerplay_starti2;type:varchar(8)"`
	PowerplayEndI2       *string    `gorm:"column:powerplay_endi2;type:varchar(8)"`
	TeamType             string     `gorm:"column:team_type;type:varchar(32)"`
	Sex                  Sex        `gorm:"column:sex;type:varchar(8);not null"`
	StartDate            time.Time  `gorm:"column:start_date;type:date;not null;index:idx_matches_date"`
	EndDate              time.Time  `gorm:"column:end_date;type:date;not null"`
	ScheduledStart       *time.Time `gorm:"column:scheduled_start;type:timestamp"` // 对账时由赛程数据补全
	Season               string     `gorm:"column:season;type:varchar(16)"`
	Team1ID              string     `gorm:"column:team1_id;type:varchar(32);not null;index:idx_matches_teams"`
	Team2ID              string     `gorm:"column:team2_id;type:varchar(32);not null;index:idx_matches_teams"`
	Umpire1ID            *string    `gorm:"column:umpire1_id;type:varchar(32)"`
	Umpire2ID            *string    `gorm:"column:umpire2_id;type:varchar(32)"`
	TVUmpireID           *string    `gorm:"column:tv_umpire_id;type:varchar(32)"`
	MatchRefereeID       *string    `gorm:"column:match_referee_id;type:varchar(32)"`
	ReserveUmpireID      *string    `gorm:"column:reserve_umpire_id;type:varchar(32)"`
	TossWinnerID         *string    `gorm:"column:toss_winner_id;type:varchar(32)"`
	TossDecision         string     `gorm:"column:toss_decision;type:varchar(8)"`
	Team1PrePostPens     int        `gorm:"column:team1_prepostpens;default:0"`
	Team2PrePostPens     int        `gorm:"column:team2_prepostpens;default:0"`
	WinnerID             *string    `gorm:"column:winner_id;type:varchar(32)"`
	ByRuns               bool       `gorm:"column:by_runs;default:false"`
	VictoryMarginRuns    *int       `gorm:"column:victory_margin_runs"`
	ByWickets            bool       `gorm:"column:by_wickets;default:false"`
	VictoryMarginWickets *int       `gorm:"column:victory_margin_wickets"`
	ByOther              bool       `gorm:"column:by_other;default:false"`
	VictoryMarginOther   *string    `gorm:"column:victory_margin_other;type:varchar(64)"`
	NoResult             bool       `gorm:"column:no_result;default:false"`
	Tie                  bool       `gorm:"column:tie;default:false"`
	SuperOver            bool       `gorm:"column:super_over;default:false"`
	BowlOut              bool       `gorm:"column:bowl_out;default:false"`
	DLS                  bool       `gorm:"column:dls;default:false"`
	PlayerOfMatchID      *string    `gorm:"column:player_of_match_id;type:varchar(32)"`
	EventName            string     `gorm:"column:event_name;type:varchar(128)"`
	EventMatchNumber     *int       `gorm:"column:event_match_number"`
	VenueID              string     `gorm:"column:venue_id;type:varchar(64);not null;index:idx_matches_venue"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// 仅用于建立外键约束，不做预加载
	Team1 *Team  `gorm:"foreignKey:Team1ID;references:TeamID" json:"-"`
	Team2 *Team  `gorm:"foreignKey:Team2ID;references:TeamID" json:"-"`
	Venue *Venue `gorm:"foreignKey:VenueID;references:VenueID" json:"-"`
}

func (Match) TableName() string { return "matches" }

// Official 按角色取官员标识
func (m *Match) Official(role OfficialRole) *string {
	switch role {
	case RoleUmpire1:
		return m.Umpire1ID
	case RoleUmpire2:
		return m.Umpire2ID
	case RoleTVUmpire:
		return m.TVUmpireID
	case RoleMatchReferee:
		return m.MatchRefereeID
	case RoleReserveUmpire:
		return m.ReserveUmpireID
	}
	return nil
}

// SetOfficial 按角色写入官员标识，空串忽略
func (m *Match) SetOfficial(role OfficialRole, id string) {
	if id == "" {
		return
	}
	v := id
	switch role {
	case RoleUmpire1:
		m.Umpire1ID = &v
	case RoleUmpire2:
		m.Umpire2ID = &v
	case RoleTVUmpire:
		m.TVUmpireID = &v
	case RoleMatchReferee:
		m.MatchRefereeID = &v
	case RoleReserveUmpire:
		m.ReserveUmpireID = &v
	}
}

// IsOfficial 判断某人是否为本场官员
func (m *Match) IsOfficial(id string) bool {
	for _, role := range OfficialRoles {
		if o := m.Official(role); o != nil && *o == id {
			return true
		}
	}
	return false
}

// IsParticipant 判断球队是否为对阵双方之一
func (m *Match) IsParticipant(teamID string) bool {
	return teamID == m.Team1ID || teamID == m.Team2ID
}

// MatchPlayer 比赛-球员-所属球队关联
type MatchPlayer struct {
	MatchID    string    `gorm:"column:match_id;primaryKey;type:varchar(64)"`
	Identifier string    `gorm:"column:identifier;primaryKey;type:varchar(32);index"`
	TeamID     string    `gorm:"column:team_id;type:varchar(32);not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	Match  *Match  `gorm:"foreignKey:MatchID;references:MatchID" json:"-"`
	Person *Person `gorm:"foreignKey:Identifier;references:Identifier" json:"-"`
}

func (MatchPlayer) TableName() string { return "match_players" }
