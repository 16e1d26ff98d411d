package analytics

import (
	"math"
	"sort"
	"strconv"

	"tunescore/model"
)

// ArtistCount pairs an artist with how many rated tracks credit them.
type ArtistCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the lightweight statistics block attached to every ratings
// listing, computed over the full collection rather than the filtered page.
type Summary struct {
	Total              int                `json:"total"`
	AverageRating      float64            `json:"averageRating"`
	HighestRating      float64            `json:"highestRating"`
	LowestRating       float64            `json:"lowestRating"`
	TopArtists         []ArtistCount      `json:"topArtists"`
	ArtistAverages     map[string]float64 `json:"artistAverages"`
	RatingDistribution map[string]int     `json:"ratingDistribution"`
}

// Summarize computes the listing summary.
func Summarize(ratings []*model.RatingEntry) *Summary {
	summary := &Summary{
		Total:              len(ratings),
		TopArtists:         []ArtistCount{},
		ArtistAverages:     map[string]float64{},
		RatingDistribution: map[string]int{},
	}
	if len(ratings) == 0 {
		return summary
	}

	var sum float64
	high, low := ratings[0].Rating, ratings[0].Rating
	counts := make(map[string]int)
	totals := make(map[string]float64)
	for _, r := range ratings {
		sum += r.Rating
		if r.Rating > high {
			high = r.Rating
		}
		if r.Rating < low {
			low = r.Rating
		}
		artist := r.Artist
		if artist == "" {
			artist = "Unknown"
		}
		counts[artist]++
		totals[artist] += r.Rating
	}

	summary.AverageRating = round2(sum / float64(len(ratings)))
	summary.HighestRating = high
	summary.LowestRating = low

	for artist, n := range counts {
		summary.ArtistAverages[artist] = round2(totals[artist] / float64(n))
	}

	top := make([]ArtistCount, 0, len(counts))
	for artist, n := range counts {
		top = append(top, ArtistCount{Name: artist, Count: n})
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 10 {
		top = top[:10]
	}
	summary.TopArtists = top

	for i := 1; i <= 10; i++ {
		summary.RatingDistribution[strconv.Itoa(i)] = 0
	}
	for _, r := range ratings {
		summary.RatingDistribution[strconv.Itoa(int(math.Round(r.Rating)))]++
	}
	return summary
}
