package ingest

import (
	"CricBase/internal/model"
)

type teamKey struct {
	sex    model.Sex
	nation string
}

// Session 一次入库运行的参考映射（队名→team_id，"场馆 | 城市"→venue_id）。
// 运行开始时从库加载一次，解析器新建条目后由调用方显式写回。
type Session struct {
	teams  map[teamKey]string
	venues map[string]string
}

// NewSession 用库中已有的球队和场馆别名初始化
func NewSession(teams []model.Team, aliases []model.VenueAlias) *Session {
	s := &Session{
		teams:  make(map[teamKey]string, len(teams)),
		venues: make(map[string]string, len(aliases)),
	}
	for _, t := range teams {
		s.AddTeam(t.Sex, t.Nation, t.TeamID)
	}
	for _, a := range aliases {
		s.AddVenue(a.AliasName, a.AliasCity, a.VenueID)
	}
	return s
}

// Team 按性别+国家名查 team_id
func (s *Session) Team(sex model.Sex, nation string) (string, bool) {
	id, ok := s.teams[teamKey{sex: sex, nation: nation}]
	return id, ok
}

// AddTeam 写入新解析出的球队
func (s *Session) AddTeam(sex model.Sex, nation, teamID string) {
	s.teams[teamKey{sex: sex, nation: nation}] = teamID
}

// Venue 按场馆名+城市查 venue_id
func (s *Session) Venue(name, city string) (string, bool) {
	id, ok := s.venues[model.VenueKey(name, city)]
	return id, ok
}

// AddVenue 写入新解析出的场馆
func (s *Session) AddVenue(name, city, venueID string) {
	s.venues[model.VenueKey(name, city)] = venueID
}

// Size 已知球队数、场馆数
func (s *Session) Size() (teams, venues int) {
	return len(s.teams), len(s.venues)
}
