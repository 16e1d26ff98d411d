package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"tunescore/model"
)

// ArtistStat is one row of the artist ranking.
type ArtistStat struct {
	Name          string  `json:"name"`
	Appearances   int     `json:"appearances"`
	TotalScore    float64 `json:"totalScore"`
	AvgScore      float64 `json:"avgScore"`
	AdjustedScore float64 `json:"adjustedScore"`
	AlbumCount    int     `json:"albumCount"`
	MinRating     float64 `json:"minRating"`
	MaxRating     float64 `json:"maxRating"`
	Rank          int     `json:"rank"`
}

// AlbumStat is one row of the album ranking. Artist, year and art are the
// first-seen values for the album, kept as representative display metadata.
type AlbumStat struct {
	Name          string  `json:"name"`
	Artist        string  `json:"artist"`
	Year          string  `json:"year"`
	AlbumArt      string  `json:"albumArt"`
	Appearances   int     `json:"appearances"`
	TotalScore    float64 `json:"totalScore"`
	AvgScore      float64 `json:"avgScore"`
	AdjustedScore float64 `json:"adjustedScore"`
	MinRating     float64 `json:"minRating"`
	MaxRating     float64 `json:"maxRating"`
	Rank          int     `json:"rank"`
}

// TimelinePoint is the rating activity of one calendar day.
type TimelinePoint struct {
	Date      string  `json:"date"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

// DecadeStat aggregates ratings whose release year falls in one decade.
type DecadeStat struct {
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

// TagStat aggregates ratings sharing one (case-folded) tag.
type TagStat struct {
	Tag       string  `json:"tag"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

// Report is the full analytics output. For unchanged input the report is
// byte-identical run to run: every group list carries a deterministic order
// and all emitted floats are rounded to a fixed precision.
type Report struct {
	Artists      []ArtistStat          `json:"artists"`
	Albums       []AlbumStat           `json:"albums"`
	Timeline     []TimelinePoint       `json:"timeline"`
	Distribution map[string]int        `json:"distribution"`
	Decades      map[string]DecadeStat `json:"decades"`
	Tags         []TagStat             `json:"tags"`
	GlobalMean   float64               `json:"globalMean"`
	TotalSongs   int                   `json:"totalSongs"`
	ShrinkageC   float64               `json:"shrinkageC"`
}

// Compute builds the analytics report over the full rating collection.
// shrinkageC is the Bayesian prior weight: a group of n ratings with sample
// mean x̄ scores (n·x̄ + c·μ)/(n + c) against the global mean μ, pulling
// small samples toward the middle. splitArtists splits comma-separated
// artist credits into distinct group keys.
func Compute(ratings []*model.RatingEntry, shrinkageC float64, splitArtists bool) *Report {
	report := &Report{
		Artists:      []ArtistStat{},
		Albums:       []AlbumStat{},
		Timeline:     []TimelinePoint{},
		Distribution: map[string]int{},
		Decades:      map[string]DecadeStat{},
		Tags:         []TagStat{},
		ShrinkageC:   shrinkageC,
	}
	if len(ratings) == 0 {
		return report
	}

	report.TotalSongs = len(ratings)

	var sum float64
	for _, r := range ratings {
		sum += r.Rating
	}
	globalMean := sum / float64(len(ratings))
	report.GlobalMean = round3(globalMean)

	report.Artists = artistStats(ratings, shrinkageC, globalMean, splitArtists)
	report.Albums = albumStats(ratings, shrinkageC, globalMean)
	report.Timeline = timeline(ratings)
	report.Distribution = distribution(ratings)
	report.Decades = decades(ratings)
	report.Tags = tagStats(ratings)
	return report
}

type group struct {
	scores []float64
	albums map[string]struct{}
}

func artistStats(ratings []*model.RatingEntry, c, mean float64, split bool) []ArtistStat {
	groups := make(map[string]*group)
	for _, r := range ratings {
		names := []string{r.Artist}
		if split {
			names = names[:0]
			for _, name := range strings.Split(r.Artist, ",") {
				names = append(names, strings.TrimSpace(name))
			}
		}
		for _, name := range names {
			if name == "" {
				continue
			}
			g := groups[name]
			if g == nil {
				g = &group{albums: make(map[string]struct{})}
				groups[name] = g
			}
			g.scores = append(g.scores, r.Rating)
			g.albums[r.Album] = struct{}{}
		}
	}

	stats := make([]ArtistStat, 0, len(groups))
	for name, g := range groups {
		n := len(g.scores)
		if n == 0 {
			continue
		}
		total, min, max := summarize(g.scores)
		avg := total / float64(n)
		stats = append(stats, ArtistStat{
			Name:          name,
			Appearances:   n,
			TotalScore:    round2(total),
			AvgScore:      round3(avg),
			AdjustedScore: round3(adjusted(n, avg, c, mean)),
			AlbumCount:    len(g.albums),
			MinRating:     min,
			MaxRating:     max,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AdjustedScore != stats[j].AdjustedScore {
			return stats[i].AdjustedScore > stats[j].AdjustedScore
		}
		return stats[i].Name < stats[j].Name
	})
	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats
}

type albumGroup struct {
	scores   []float64
	artist   string
	year     string
	albumArt string
}

func albumStats(ratings []*model.RatingEntry, c, mean float64) []AlbumStat {
	groups := make(map[string]*albumGroup)
	for _, r := range ratings {
		key := r.Album
		if key == "" {
			key = "Unknown"
		}
		g := groups[key]
		if g == nil {
			g = &albumGroup{artist: r.Artist, year: r.Year, albumArt: r.AlbumArt}
			groups[key] = g
		}
		g.scores = append(g.scores, r.Rating)
	}

	stats := make([]AlbumStat, 0, len(groups))
	for name, g := range groups {
		n := len(g.scores)
		if n == 0 {
			continue
		}
		total, min, max := summarize(g.scores)
		avg := total / float64(n)
		stats = append(stats, AlbumStat{
			Name:          name,
			Artist:        g.artist,
			Year:          g.year,
			AlbumArt:      g.albumArt,
			Appearances:   n,
			TotalScore:    round2(total),
			AvgScore:      round3(avg),
			AdjustedScore: round3(adjusted(n, avg, c, mean)),
			MinRating:     min,
			MaxRating:     max,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AdjustedScore != stats[j].AdjustedScore {
			return stats[i].AdjustedScore > stats[j].AdjustedScore
		}
		return stats[i].Name < stats[j].Name
	})
	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats
}

func timeline(ratings []*model.RatingEntry) []TimelinePoint {
	type bucket struct {
		count int
		total float64
	}
	days := make(map[string]*bucket)
	for _, r := range ratings {
		day := r.RatedAt.Format("2006-01-02")
		b := days[day]
		if b == nil {
			b = &bucket{}
			days[day] = b
		}
		b.count++
		b.total += r.Rating
	}

	points := make([]TimelinePoint, 0, len(days))
	for day, b := range days {
		points = append(points, TimelinePoint{
			Date:      day,
			Count:     b.count,
			AvgRating: round2(b.total / float64(b.count)),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

func distribution(ratings []*model.RatingEntry) map[string]int {
	dist := make(map[string]int)
	for _, r := range ratings {
		key := strconv.Itoa(int(math.Round(r.Rating)))
		dist[key]++
	}
	return dist
}

func decades(ratings []*model.RatingEntry) map[string]DecadeStat {
	type bucket struct {
		count int
		total float64
	}
	buckets := make(map[string]*bucket)
	for _, r := range ratings {
		year, ok := digitYear(r.Year)
		if !ok {
			continue
		}
		key := strconv.Itoa(year/10*10) + "s"
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.total += r.Rating
	}

	out := make(map[string]DecadeStat, len(buckets))
	for key, b := range buckets {
		out[key] = DecadeStat{
			Count:     b.count,
			AvgRating: round2(b.total / float64(b.count)),
		}
	}
	return out
}

func tagStats(ratings []*model.RatingEntry) []TagStat {
	type bucket struct {
		count int
		total float64
	}
	buckets := make(map[string]*bucket)
	for _, r := range ratings {
		for _, tag := range r.Tags {
			t := strings.ToLower(strings.TrimSpace(tag))
			if t == "" {
				continue
			}
			b := buckets[t]
			if b == nil {
				b = &bucket{}
				buckets[t] = b
			}
			b.count++
			b.total += r.Rating
		}
	}

	stats := make([]TagStat, 0, len(buckets))
	for tag, b := range buckets {
		stats = append(stats, TagStat{
			Tag:       tag,
			Count:     b.count,
			AvgRating: round2(b.total / float64(b.count)),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Tag < stats[j].Tag
	})
	return stats
}

// adjusted is the Bayesian-shrinkage score: it reduces to the raw mean as
// c approaches 0 and to the global mean as n stays small relative to c.
func adjusted(n int, avg, c, mean float64) float64 {
	return (float64(n)*avg + c*mean) / (float64(n) + c)
}

func summarize(scores []float64) (total, min, max float64) {
	min, max = scores[0], scores[0]
	for _, s := range scores {
		total += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return total, min, max
}

// digitYear accepts only all-digit year strings, mirroring how release
// years arrive from the remote service as free text.
func digitYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
