package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"CricBase/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "cricbase.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func seedReference(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&[]model.Team{
		{TeamID: "indiaMT20", Format: "T20", FullName: "India Men", Abbreviation: "IND", Sex: model.SexMale, Nation: "India"},
		{TeamID: "englandMT20", Format: "T20", FullName: "England Men", Abbreviation: "ENG", Sex: model.SexMale, Nation: "England"},
	}).Error)
	require.NoError(t, db.Create(&model.Venue{VenueID: "v-eden", VenueName: "Eden Gardens", City: "Kolkata", Nation: "India", NationCode: "IND"}).Error)
}

func ptr[T any](v T) *T { return &v }

func sampleGroup(matchID string) *MatchGroup {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &model.Match{
		MatchID:           matchID,
		MatchType:         "T20",
		TeamType:          "international",
		Sex:               model.SexMale,
		StartDate:         start,
		EndDate:           start,
		Team1ID:           "indiaMT20",
		Team2ID:           "englandMT20",
		TossWinnerID:      ptr("englandMT20"),
		TossDecision:      "field",
		WinnerID:          ptr("indiaMT20"),
		ByRuns:            true,
		VictoryMarginRuns: ptr(9),
		VenueID:           "v-eden",
	}
	return &MatchGroup{
		Match:  m,
		People: []model.Person{{Identifier: "p1", Name: "Batter One"}, {Identifier: "p2", Name: "Batter Two"}, {Identifier: "b1", Name: "Bowler One"}},
		Players: []model.MatchPlayer{
			{MatchID: matchID, Identifier: "p1", TeamID: "indiaMT20"},
			{MatchID: matchID, Identifier: "p2", TeamID: "indiaMT20"},
			{MatchID: matchID, Identifier: "b1", TeamID: "englandMT20"},
		},
		Deliveries: []model.Delivery{
			{DeliveryKey: model.DeliveryKey{MatchID: matchID, Innings: 1, Over: 1, Ball: 1}, BatterID: "p1", NonStrikerID: "p2", BowlerID: "b1", RunsBatter: 4, RunsTotal: 4},
			{DeliveryKey: model.DeliveryKey{MatchID: matchID, Innings: 1, Over: 1, Ball: 2}, BatterID: "p1", NonStrikerID: "p2", BowlerID: "b1",
				RunsExtras: 1, RunsTotal: 1, Extras: model.Extras{Wides: 1}},
			{DeliveryKey: model.DeliveryKey{MatchID: matchID, Innings: 1, Over: 1, Ball: 3}, BatterID: "p1", NonStrikerID: "p2", BowlerID: "b1",
				Wicket: &model.Wicket{PlayerOutID: "p1", Kind: model.KindCaughtAndBowled, Fielders: []string{"b1"}}},
		},
	}
}

func TestSaveMatchGroup_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	matches := NewMatchRepository(db)
	deliveries := NewDeliveryRepository(db)

	require.NoError(t, matches.SaveMatchGroup(ctx, sampleGroup("1000001")))

	ids, err := matches.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000001"}, ids)

	players, err := matches.ListPlayers(ctx, "1000001")
	require.NoError(t, err)
	assert.Len(t, players, 3)

	ds, err := deliveries.ListDeliveries(ctx, DeliveryFilter{MatchID: "1000001"})
	require.NoError(t, err)
	require.Len(t, ds, 3)
	assert.Equal(t, 4, ds[0].RunsBatter)
	assert.False(t, ds[0].NonBoundary)
	assert.Equal(t, 1, ds[1].Extras.Wides)
	require.NotNil(t, ds[2].Wicket)
	assert.Equal(t, model.KindCaughtAndBowled, ds[2].Wicket.Kind)
	assert.Equal(t, []string{"b1"}, ds[2].Wicket.Fielders)

	byPlayer, err := deliveries.ListDeliveries(ctx, DeliveryFilter{PlayerID: "p2"})
	require.NoError(t, err)
	assert.Len(t, byPlayer, 3)
}

func TestSaveMatchGroup_DuplicateMatchRollsBack(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	matches := NewMatchRepository(db)

	require.NoError(t, matches.SaveMatchGroup(ctx, sampleGroup("1000001")))

	err := matches.SaveMatchGroup(ctx, sampleGroup("1000001"))
	var conflict *IntegrityConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, "1000001", conflict.MatchID)

	n, err := NewDeliveryRepository(db).CountDeliveries(ctx, "1000001")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSaveMatchGroup_DuplicateDeliveryKeyRollsBackWholeGroup(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	matches := NewMatchRepository(db)

	g := sampleGroup("1000002")
	g.Deliveries = append(g.Deliveries, g.Deliveries[0])

	err := matches.SaveMatchGroup(ctx, g)
	var conflict *IntegrityConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)

	ids, err := matches.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	var players int64
	require.NoError(t, db.Model(&model.MatchPlayer{}).Count(&players).Error)
	assert.Zero(t, players)
}

func TestSaveMatchGroup_UnknownTeamIsForeignKeyConflict(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)

	g := sampleGroup("1000003")
	g.Match.Team2ID = "nowhereMT20"
	err := NewMatchRepository(db).SaveMatchGroup(context.Background(), g)
	var conflict *IntegrityConflictError
	assert.True(t, errors.As(err, &conflict), "got %v", err)
}

func TestSaveMatchGroup_SharedPeopleAcrossMatches(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	matches := NewMatchRepository(db)

	require.NoError(t, matches.SaveMatchGroup(ctx, sampleGroup("1000001")))
	require.NoError(t, matches.SaveMatchGroup(ctx, sampleGroup("1000002")))

	var people int64
	require.NoError(t, db.Model(&model.Person{}).Count(&people).Error)
	assert.EqualValues(t, 3, people)
}

func TestReadMatchSummaries(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	matches := NewMatchRepository(db)
	require.NoError(t, matches.SaveMatchGroup(ctx, sampleGroup("1000001")))

	all, err := matches.ReadMatchSummaries(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	s := all[0]
	assert.Equal(t, "1000001", s.MatchID)
	assert.Equal(t, "2024-03-01", s.Date)
	assert.Equal(t, "India Men", s.Team1)
	assert.Equal(t, "England Men", s.Team2)
	assert.Equal(t, "India Men won by 9 runs", s.ResultText)
	assert.Equal(t, "England Men won the toss and chose to field", s.TossText)
	assert.Equal(t, "India", s.VenueNation)
	assert.False(t, s.HasSchedule)

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	none, err := matches.ReadMatchSummaries(ctx, &from, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateScheduledStart_OnlyOnce(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	matches := NewMatchRepository(db)
	require.NoError(t, matches.SaveMatchGroup(ctx, sampleGroup("1000001")))

	first := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
	ok, err := matches.UpdateScheduledStart(ctx, "1000001", first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matches.UpdateScheduledStart(ctx, "1000001", first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	m, err := matches.GetMatch(ctx, "1000001")
	require.NoError(t, err)
	require.NotNil(t, m.ScheduledStart)
	assert.True(t, first.Equal(*m.ScheduledStart))
}

func TestReferenceRepository(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	refs := NewReferenceRepository(db)

	team, err := refs.FindTeam(ctx, model.SexMale, "India")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, "indiaMT20", team.TeamID)

	missing, err := refs.FindTeam(ctx, model.SexFemale, "India")
	require.NoError(t, err)
	assert.Nil(t, missing)

	v, err := refs.FindVenue(ctx, "Eden Gardens", "Kolkata")
	require.NoError(t, err)
	require.NotNil(t, v)

	require.NoError(t, refs.CreateVenue(ctx,
		&model.Venue{VenueID: "v-wankhede", VenueName: "Wankhede Stadium", City: "Mumbai", Nation: "India", NationCode: "IND"},
		&model.VenueAlias{AliasName: "Wankhede", AliasCity: "Bombay", AliasNation: "India"}))

	byAlias, err := refs.FindVenue(ctx, "Wankhede", "Bombay")
	require.NoError(t, err)
	require.NotNil(t, byAlias)
	assert.Equal(t, "v-wankhede", byAlias.VenueID)

	aliases, err := refs.ListVenueAliases(ctx)
	require.NoError(t, err)
	assert.Len(t, aliases, 1)
}

func TestBacklogReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	backlog := NewBacklogRepository(db)

	require.NoError(t, backlog.Replace(ctx, []model.BacklogEntry{
		{RunID: "r1", Position: 0, ExternalID: "a", MatchDate: "2024-03-01", Team1: "A", Team2: "B"},
		{RunID: "r1", Position: 1, ExternalID: "b", MatchDate: "2024-03-02", Team1: "C", Team2: "D"},
	}))
	require.NoError(t, backlog.Replace(ctx, []model.BacklogEntry{
		{RunID: "r2", Position: 0, ExternalID: "c", MatchDate: "2024-03-03", Team1: "E", Team2: "F"},
	}))

	list, total, err := backlog.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "r2", list[0].RunID)

	require.NoError(t, backlog.Replace(ctx, nil))
	_, total, err = backlog.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestVerifyIntegrity(t *testing.T) {
	db := newTestDB(t)
	seedReference(t, db)
	ctx := context.Background()
	require.NoError(t, NewMatchRepository(db).SaveMatchGroup(ctx, sampleGroup("1000001")))

	integrity := NewIntegrityRepository(db)
	issues, err := integrity.VerifyIntegrity(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)

	// 直接改库制造矛盾赛果
	require.NoError(t, db.Model(&model.Match{}).Where("match_id = ?", "1000001").Update("no_result", true).Error)
	issues, err = integrity.VerifyIntegrity(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, CheckResultInconsistent, issues[0].Check)
	assert.Equal(t, "1000001", issues[0].MatchID)
}

func TestIsIntegrityViolation(t *testing.T) {
	assert.True(t, isIntegrityViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isIntegrityViolation(errors.New("UNIQUE constraint failed: matches.match_id")))
	assert.False(t, isIntegrityViolation(errors.New("connection refused")))
	assert.False(t, isIntegrityViolation(nil))
}
