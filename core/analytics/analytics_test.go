package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunescore/model"
)

func rated(artist, album string, rating float64, day int) *model.RatingEntry {
	return &model.RatingEntry{
		ID:      artist + album,
		TrackID: artist + album,
		Title:   "song",
		Artist:  artist,
		Album:   album,
		Rating:  rating,
		RatedAt: time.Date(2024, 5, day, 10, 0, 0, 0, time.UTC),
	}
}

func TestComputeEmptyCollection(t *testing.T) {
	report := Compute(nil, 5, false)
	assert.Equal(t, 0.0, report.GlobalMean)
	assert.Equal(t, 0, report.TotalSongs)
	assert.Empty(t, report.Artists)
	assert.Empty(t, report.Albums)
	assert.Empty(t, report.Timeline)
	assert.Empty(t, report.Tags)
	assert.Equal(t, 5.0, report.ShrinkageC)
}

func TestBayesianAdjustedScores(t *testing.T) {
	// Three ratings 8, 6, 7: global mean 7. With c=5:
	//   adjusted(A) = (1*8 + 5*7) / (1+5) = 43/6  = 7.1667
	//   adjusted(B) = (2*6.5 + 5*7) / (2+5) = 48/7 = 6.8571
	ratings := []*model.RatingEntry{
		rated("A", "a1", 8, 1),
		rated("B", "b1", 6, 1),
		rated("B", "b2", 7, 1),
	}

	report := Compute(ratings, 5, false)
	assert.Equal(t, 7.0, report.GlobalMean)
	require.Len(t, report.Artists, 2)

	a := report.Artists[0]
	b := report.Artists[1]
	assert.Equal(t, "A", a.Name, "A ranks above B")
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 7.167, a.AdjustedScore)
	assert.Equal(t, 8.0, a.AvgScore)
	assert.Equal(t, 1, a.Appearances)

	assert.Equal(t, "B", b.Name)
	assert.Equal(t, 2, b.Rank)
	assert.Equal(t, 6.857, b.AdjustedScore)
	assert.Equal(t, 6.5, b.AvgScore)
	assert.Equal(t, 2, b.Appearances)
	assert.Equal(t, 6.0, b.MinRating)
	assert.Equal(t, 7.0, b.MaxRating)
	assert.Equal(t, 13.0, b.TotalScore)
	assert.Equal(t, 2, b.AlbumCount)
}

func TestShrinkageZeroReducesToRawMean(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("A", "a1", 8, 1),
		rated("B", "b1", 6, 1),
	}

	report := Compute(ratings, 0, false)
	require.Len(t, report.Artists, 2)
	assert.Equal(t, 8.0, report.Artists[0].AdjustedScore)
	assert.Equal(t, 6.0, report.Artists[1].AdjustedScore)
}

func TestArtistSplitMode(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("Jay-Z, Kanye West", "wtt", 9, 1),
		rated("Kanye West", "mbdtf", 10, 1),
	}

	// Default: the full credit string is one group key.
	report := Compute(ratings, 0, false)
	require.Len(t, report.Artists, 2)

	// Split mode: both credited artists get the rating.
	report = Compute(ratings, 0, true)
	require.Len(t, report.Artists, 2)
	var kanye *ArtistStat
	for i := range report.Artists {
		if report.Artists[i].Name == "Kanye West" {
			kanye = &report.Artists[i]
		}
	}
	require.NotNil(t, kanye)
	assert.Equal(t, 2, kanye.Appearances)
	assert.Equal(t, 9.5, kanye.AvgScore)
}

func TestArtistSplitDropsEmptySegments(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("A, , B,", "x", 8, 1),
	}

	report := Compute(ratings, 0, true)
	require.Len(t, report.Artists, 2)
	assert.Equal(t, "A", report.Artists[0].Name)
	assert.Equal(t, "B", report.Artists[1].Name)
}

func TestAlbumGrouping(t *testing.T) {
	first := rated("Artist One", "Shared Album", 8, 1)
	first.Year = "1997"
	first.AlbumArt = "first.jpg"
	second := rated("Artist Two", "Shared Album", 6, 1)
	second.Year = "2001"
	second.AlbumArt = "second.jpg"
	second.TrackID = "other"
	blank := rated("Someone", "", 5, 1)

	report := Compute([]*model.RatingEntry{first, second, blank}, 0, false)
	require.Len(t, report.Albums, 2)

	var shared, unknown *AlbumStat
	for i := range report.Albums {
		switch report.Albums[i].Name {
		case "Shared Album":
			shared = &report.Albums[i]
		case "Unknown":
			unknown = &report.Albums[i]
		}
	}
	require.NotNil(t, shared)
	require.NotNil(t, unknown)

	assert.Equal(t, 2, shared.Appearances)
	assert.Equal(t, "Artist One", shared.Artist, "first-seen metadata is representative")
	assert.Equal(t, "1997", shared.Year)
	assert.Equal(t, "first.jpg", shared.AlbumArt)
	assert.Equal(t, 1, unknown.Appearances)
}

func TestTimeline(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("A", "a", 8, 2),
		rated("B", "b", 6, 2),
		rated("C", "c", 10, 1),
	}

	report := Compute(ratings, 5, false)
	require.Len(t, report.Timeline, 2)
	assert.Equal(t, "2024-05-01", report.Timeline[0].Date, "chronological order")
	assert.Equal(t, 1, report.Timeline[0].Count)
	assert.Equal(t, 10.0, report.Timeline[0].AvgRating)
	assert.Equal(t, "2024-05-02", report.Timeline[1].Date)
	assert.Equal(t, 2, report.Timeline[1].Count)
	assert.Equal(t, 7.0, report.Timeline[1].AvgRating)
}

func TestDistribution(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("A", "a", 7.8, 1),
		rated("B", "b", 8.2, 1),
		rated("C", "c", 3, 1),
	}

	report := Compute(ratings, 5, false)
	assert.Equal(t, map[string]int{"8": 2, "3": 1}, report.Distribution)
}

func TestDecades(t *testing.T) {
	in90s := rated("A", "a", 8, 1)
	in90s.Year = "1997"
	also90s := rated("B", "b", 6, 1)
	also90s.Year = "1992"
	in2000s := rated("C", "c", 9, 1)
	in2000s.Year = "2005"
	noYear := rated("D", "d", 5, 1)
	noYear.Year = ""
	badYear := rated("E", "e", 5, 1)
	badYear.Year = "circa 1980"

	report := Compute([]*model.RatingEntry{in90s, also90s, in2000s, noYear, badYear}, 5, false)
	require.Len(t, report.Decades, 2)
	assert.Equal(t, DecadeStat{Count: 2, AvgRating: 7}, report.Decades["1990s"])
	assert.Equal(t, DecadeStat{Count: 1, AvgRating: 9}, report.Decades["2000s"])

	// Non-numeric years are excluded from decades but still counted overall.
	assert.Equal(t, 5, report.TotalSongs)
}

func TestTagAggregation(t *testing.T) {
	a := rated("A", "a", 8, 1)
	a.Tags = []string{"Rock", " chill "}
	b := rated("B", "b", 6, 1)
	b.Tags = []string{"rock", ""}
	c := rated("C", "c", 10, 1)
	c.Tags = []string{"chill"}

	report := Compute([]*model.RatingEntry{a, b, c}, 5, false)
	require.Len(t, report.Tags, 2)

	// Sorted by occurrence count descending; ties broken by name.
	assert.Equal(t, "chill", report.Tags[0].Tag)
	assert.Equal(t, 2, report.Tags[0].Count)
	assert.Equal(t, 9.0, report.Tags[0].AvgRating)
	assert.Equal(t, "rock", report.Tags[1].Tag)
	assert.Equal(t, 2, report.Tags[1].Count)
	assert.Equal(t, 7.0, report.Tags[1].AvgRating)
}

func TestReportIsDeterministic(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("A", "a", 8, 1),
		rated("B", "b", 8, 1),
		rated("C", "c", 8, 2),
	}
	for i := range ratings {
		ratings[i].Tags = []string{"x", "y"}
	}

	first, err := json.Marshal(Compute(ratings, 5, false))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := json.Marshal(Compute(ratings, 5, false))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestSummarize(t *testing.T) {
	ratings := []*model.RatingEntry{
		rated("A", "a", 8, 1),
		rated("A", "b", 6, 1),
		rated("B", "c", 10, 1),
	}
	ratings[1].TrackID = "second"

	summary := Summarize(ratings)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 8.0, summary.AverageRating)
	assert.Equal(t, 10.0, summary.HighestRating)
	assert.Equal(t, 6.0, summary.LowestRating)
	require.Len(t, summary.TopArtists, 2)
	assert.Equal(t, ArtistCount{Name: "A", Count: 2}, summary.TopArtists[0])
	assert.Equal(t, 7.0, summary.ArtistAverages["A"])
	assert.Equal(t, 10.0, summary.ArtistAverages["B"])
	assert.Equal(t, 2, summary.RatingDistribution["8"])
	assert.Equal(t, 0, summary.RatingDistribution["5"])
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.TopArtists)
	assert.Empty(t, summary.ArtistAverages)
}
