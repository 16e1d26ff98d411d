package query

import (
	"sort"
	"strconv"
	"strings"

	"tunescore/model"
)

// Filter holds the predicates applied to the rating collection. Zero values
// mean "no constraint"; rating bounds are inclusive.
type Filter struct {
	Artist    string
	MinRating *float64
	MaxRating *float64
	Search    string
}

// Apply filters a shallow copy of the collection. The source slice and its
// entries are never mutated.
func Apply(entries []*model.RatingEntry, f Filter) []*model.RatingEntry {
	filtered := make([]*model.RatingEntry, 0, len(entries))
	filtered = append(filtered, entries...)

	if artist := strings.ToLower(f.Artist); artist != "" {
		filtered = keep(filtered, func(e *model.RatingEntry) bool {
			return strings.Contains(strings.ToLower(e.Artist), artist)
		})
	}
	if f.MinRating != nil {
		filtered = keep(filtered, func(e *model.RatingEntry) bool {
			return e.Rating >= *f.MinRating
		})
	}
	if f.MaxRating != nil {
		filtered = keep(filtered, func(e *model.RatingEntry) bool {
			return e.Rating <= *f.MaxRating
		})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		filtered = keep(filtered, func(e *model.RatingEntry) bool {
			return Match(search,
				e.Title, e.Artist, e.Album, e.Notes, strings.Join(e.Tags, " "))
		})
	}
	return filtered
}

func keep(entries []*model.RatingEntry, pred func(*model.RatingEntry) bool) []*model.RatingEntry {
	out := entries[:0]
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Sort stably orders entries by key. "rating" and "year" compare
// numerically with missing or non-numeric values treated as 0; every other
// key compares case-insensitively as text. order is "asc" or "desc".
func Sort(entries []*model.RatingEntry, key, order string) {
	desc := order == "desc"

	switch key {
	case "rating", "year":
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := numericField(entries[i], key), numericField(entries[j], key)
			if desc {
				return a > b
			}
			return a < b
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := textField(entries[i], key), textField(entries[j], key)
			if desc {
				return a > b
			}
			return a < b
		})
	}
}

func numericField(e *model.RatingEntry, key string) float64 {
	switch key {
	case "rating":
		return e.Rating
	case "year":
		if v, err := strconv.ParseFloat(strings.TrimSpace(e.Year), 64); err == nil {
			return v
		}
		return 0
	}
	return 0
}

func textField(e *model.RatingEntry, key string) string {
	var v string
	switch key {
	case "title":
		v = e.Title
	case "artist":
		v = e.Artist
	case "album":
		v = e.Album
	case "notes":
		v = e.Notes
	case "id":
		v = e.ID
	case "trackId":
		v = e.TrackID
	case "albumArt":
		v = e.AlbumArt
	case "tags":
		v = strings.Join(e.Tags, " ")
	case "ratedAt":
		v = e.RatedAt.Format("2006-01-02T15:04:05.000000000Z07:00")
	case "updatedAt":
		if e.UpdatedAt != nil {
			v = e.UpdatedAt.Format("2006-01-02T15:04:05.000000000Z07:00")
		}
	}
	return strings.ToLower(v)
}

// Page is one paginated slice of a filtered-and-sorted result.
type Page struct {
	Items   []*model.RatingEntry
	Total   int
	Offset  int
	HasMore bool
}

// Paginate slices entries. limit <= 0 returns everything from offset onward;
// otherwise the page holds min(limit, len-offset) items, empty when the
// offset is past the end.
func Paginate(entries []*model.RatingEntry, offset, limit int) Page {
	total := len(entries)
	if offset < 0 {
		offset = 0
	}

	page := Page{Total: total, Offset: offset}
	if offset >= total {
		page.Items = []*model.RatingEntry{}
		return page
	}

	if limit <= 0 {
		page.Items = entries[offset:]
		return page
	}

	end := offset + limit
	if end > total {
		end = total
	}
	page.Items = entries[offset:end]
	page.HasMore = end < total
	return page
}
