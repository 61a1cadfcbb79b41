package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CricBase/internal/model"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "india men", NormalizeName("  India   Men "))
	assert.Equal(t, "india men", NormalizeName("INDIA\tMEN"))
	// 全角字符经 NFKC 归一
	assert.Equal(t, "india", NormalizeName("ＩＮＤＩＡ"))
}

func TestTeamPairKey_OrderIndependent(t *testing.T) {
	assert.Equal(t, TeamPairKey("India Men", "England Men"), TeamPairKey("england men", "INDIA MEN"))
	assert.Equal(t, "england men | india men", TeamPairKey("India Men", "England Men"))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", NormalizeDate("2024-03-01"))
	assert.Equal(t, "2024-03-01", NormalizeDate("2024-03-01T19:30:00+05:30"))
	assert.Equal(t, "bad", NormalizeDate(" bad "))
}

func TestCollapse_KeepsFirstSeen(t *testing.T) {
	in := []model.ScrapedSummary{
		{ExternalID: "1", Date: "2024-01-31", Team1: "A", Team2: "B", ResultText: "A won by 5 runs"},
		{ExternalID: "2", Date: "2024-02-01", Team1: "C", Team2: "D"},
		{ExternalID: "1", Date: "2024-02-01", Team1: "A", Team2: "B", ResultText: "A won by 5 runs"},
		{ExternalID: "", Date: "2024-02-02", Team1: "E", Team2: "F"},
		{ExternalID: "", Date: "2024-02-02", Team1: "E", Team2: "F"},
	}
	kept, dropped := Collapse(in)

	require.Len(t, kept, 4)
	assert.Equal(t, "2024-01-31", kept[0].Date)
	assert.Equal(t, "2", kept[1].ExternalID)
	require.Len(t, dropped, 1)
	assert.Equal(t, "2024-02-01", dropped[0].Dropped.Date)
	assert.Equal(t, "2024-01-31", dropped[0].Kept.Date)
}

func TestCollapse_Empty(t *testing.T) {
	kept, dropped := Collapse(nil)
	assert.Empty(t, kept)
	assert.Empty(t, dropped)
}

func scraped(id, date, t1, t2, result, toss, nation string) model.ScrapedSummary {
	return model.ScrapedSummary{ExternalID: id, Date: date, Team1: t1, Team2: t2, ResultText: result, TossText: toss, VenueNation: nation}
}

func canonicalOf(id, date, t1, t2, result, toss, nation string) model.CanonicalSummary {
	return model.CanonicalSummary{MatchID: id, Date: date, Team1: t1, Team2: t2, ResultText: result, TossText: toss, VenueNation: nation}
}

func TestMatch_EmptyCanonicalEverythingMissing(t *testing.T) {
	rec := scraped("x1", "2024-03-01", "A", "B", "A won by 5 wickets", "B won the toss and chose to field", "X")
	res := Match([]model.ScrapedSummary{rec}, nil)

	assert.Empty(t, res.Exact)
	assert.Empty(t, res.Disagreeing)
	assert.Equal(t, []model.ScrapedSummary{rec}, res.Missing)
}

func TestMatch_EmptyExternalIsNoop(t *testing.T) {
	res := Match(nil, []model.CanonicalSummary{canonicalOf("m1", "2024-03-01", "A", "B", "r", "t", "X")})
	assert.Empty(t, res.Exact)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Disagreeing)
}

func TestMatch_ResultDrift(t *testing.T) {
	ext := scraped("x1", "2024-03-01", "A", "B", "A won by 5 wickets", "B won the toss and chose to field", "X")
	can := canonicalOf("m1", "2024-03-01", "B", "A", "A won by 4 wickets", "B won the toss and chose to field", "X")

	res := Match([]model.ScrapedSummary{ext}, []model.CanonicalSummary{can})

	assert.Empty(t, res.Exact)
	assert.Equal(t, []model.ScrapedSummary{ext}, res.Missing)
	require.Len(t, res.Disagreeing, 1)
	d := res.Disagreeing[0]
	assert.Equal(t, ResultMismatch, d.Kind)
	assert.Equal(t, "m1", d.MatchID)
	assert.Equal(t, "x1", d.ExternalID)
	assert.Equal(t, "A won by 4 wickets", d.CanonicalValue)
	assert.Equal(t, "A won by 5 wickets", d.ExternalValue)
	assert.Len(t, res.DiagnosesFor(ext), 1)
}

func TestMatch_ExactIgnoresSideOrderAndCase(t *testing.T) {
	ext := scraped("x1", "2024-03-01", "India Men", "England Men", "r", "t", "India")
	can := canonicalOf("m1", "2024-03-01", "england  men", "INDIA MEN", "r", "t", "India")

	res := Match([]model.ScrapedSummary{ext}, []model.CanonicalSummary{can})

	require.Len(t, res.Exact, 1)
	assert.Equal(t, "m1", res.Exact[0].MatchID)
	assert.Equal(t, "x1", res.Exact[0].External.ExternalID)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Disagreeing)
}

func TestMatch_EachRelaxedJoin(t *testing.T) {
	base := canonicalOf("m1", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "X")

	cases := []struct {
		name string
		ext  model.ScrapedSummary
		kind MismatchKind
		want [2]string
	}{
		{"date", scraped("x", "2024-03-02", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "X"), DateMismatch, [2]string{"2024-03-01", "2024-03-02"}},
		{"toss", scraped("x", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to field", "X"), TossMismatch, [2]string{"A won the toss and chose to bat", "A won the toss and chose to field"}},
		{"venue", scraped("x", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "Y"), VenueNationMismatch, [2]string{"X", "Y"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Match([]model.ScrapedSummary{tc.ext}, []model.CanonicalSummary{base})
			assert.Empty(t, res.Exact)
			assert.Len(t, res.Missing, 1)
			require.Len(t, res.Disagreeing, 1)
			assert.Equal(t, tc.kind, res.Disagreeing[0].Kind)
			assert.Equal(t, tc.want[0], res.Disagreeing[0].CanonicalValue)
			assert.Equal(t, tc.want[1], res.Disagreeing[0].ExternalValue)
		})
	}
}

func TestMatch_MultipleDiagnosesForOneRow(t *testing.T) {
	// 赛果与场馆国家同时不同的记录不算近似命中；其余两条各报一次
	can := canonicalOf("m1", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "X")
	ext := []model.ScrapedSummary{
		scraped("x1", "2024-03-01", "A", "B", "A won by 6 runs", "A won the toss and chose to bat", "Y"),
		scraped("x2", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to field", "X"),
		scraped("x3", "2024-03-01", "A", "B", "A won by 7 runs", "A won the toss and chose to bat", "X"),
	}
	res := Match(ext, []model.CanonicalSummary{can})

	require.Len(t, res.Disagreeing, 2)
	assert.Equal(t, ResultMismatch, res.Disagreeing[0].Kind)
	assert.Equal(t, "x3", res.Disagreeing[0].ExternalID)
	assert.Equal(t, TossMismatch, res.Disagreeing[1].Kind)
	assert.Equal(t, "x2", res.Disagreeing[1].ExternalID)
	assert.Empty(t, res.DiagnosesFor(ext[0]))
	assert.Len(t, res.Missing, 3)
}

func TestMatch_TwoFieldDriftNotDiagnosed(t *testing.T) {
	can := canonicalOf("m1", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "X")
	for _, ext := range []model.ScrapedSummary{
		scraped("x", "2024-03-01", "A", "B", "A won by 6 runs", "A won the toss and chose to bat", "Y"),
		scraped("x", "2024-03-02", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "Y"),
		scraped("x", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to field", "Y"),
	} {
		res := Match([]model.ScrapedSummary{ext}, []model.CanonicalSummary{can})
		assert.Empty(t, res.Disagreeing, ext)
		assert.Len(t, res.Missing, 1)
	}
}

func TestMatch_DiagnosesForRowsWithoutExternalID(t *testing.T) {
	can := canonicalOf("m1", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "X")
	drift := scraped("", "2024-03-01", "A", "B", "A won by 6 runs", "A won the toss and chose to bat", "X")
	other := scraped("", "2024-03-09", "C", "D", "C won by 1 run", "C won the toss and chose to bat", "X")
	res := Match([]model.ScrapedSummary{drift, other}, []model.CanonicalSummary{can})

	require.Len(t, res.Disagreeing, 1)
	assert.Len(t, res.DiagnosesFor(drift), 1)
	assert.Empty(t, res.DiagnosesFor(other))
}

func TestMatch_MissingOrderIgnoresInputOrder(t *testing.T) {
	a := scraped("", "2024-03-01", "A", "b", "r", "t", "X")
	b := scraped("", "2024-03-01", "A", "B", "r", "t", "X")
	first := Match([]model.ScrapedSummary{a, b}, nil)
	second := Match([]model.ScrapedSummary{b, a}, nil)
	assert.Equal(t, first.Missing, second.Missing)
	assert.Equal(t, "B", first.Missing[0].Team2)
}

func TestMatch_ExactRowNotDiagnosed(t *testing.T) {
	can := canonicalOf("m1", "2024-03-01", "A", "B", "r", "t", "X")
	ext := []model.ScrapedSummary{
		scraped("x1", "2024-03-01", "A", "B", "r", "t", "X"),
		scraped("x2", "2024-03-01", "A", "B", "r2", "t", "X"),
	}
	res := Match(ext, []model.CanonicalSummary{can})

	require.Len(t, res.Exact, 1)
	assert.Empty(t, res.Disagreeing)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, "x2", res.Missing[0].ExternalID)
}

func TestMatch_PermutationInvariant(t *testing.T) {
	ext := []model.ScrapedSummary{
		scraped("1", "2024-03-01", "A", "B", "A won by 5 runs", "A won the toss and chose to bat", "X"),
		scraped("2", "2024-03-02", "C", "D", "D won by 2 wickets", "C won the toss and chose to bat", "X"),
		scraped("3", "2024-03-03", "E", "F", "No Result", "Toss Info Missing/No Toss", "Y"),
		scraped("4", "2024-03-05", "G", "H", "Match Tied", "G won the toss and chose to field", "Z"),
		scraped("5", "2024-03-05", "A", "C", "A won by 1 run", "C won the toss and chose to field", "X"),
	}
	can := []model.CanonicalSummary{
		canonicalOf("m1", "2024-03-01", "B", "A", "A won by 5 runs", "A won the toss and chose to bat", "X"),
		canonicalOf("m2", "2024-03-02", "C", "D", "D won by 3 wickets", "C won the toss and chose to bat", "X"),
		canonicalOf("m3", "2024-03-04", "E", "F", "No Result", "Toss Info Missing/No Toss", "Y"),
		canonicalOf("m4", "2024-03-05", "G", "H", "Match Tied", "G won the toss and chose to field", "W"),
		canonicalOf("m5", "2024-04-01", "I", "J", "I won by 9 runs", "J won the toss and chose to bat", "X"),
	}
	want := Match(ext, can)
	require.Len(t, want.Exact, 1)
	require.Len(t, want.Missing, 4)
	require.Len(t, want.Disagreeing, 3)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		e := append([]model.ScrapedSummary(nil), ext...)
		c := append([]model.CanonicalSummary(nil), can...)
		rng.Shuffle(len(e), func(a, b int) { e[a], e[b] = e[b], e[a] })
		rng.Shuffle(len(c), func(a, b int) { c[a], c[b] = c[b], c[a] })
		assert.Equal(t, want, Match(e, c))
	}
}
