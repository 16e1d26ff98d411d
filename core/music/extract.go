package music

import (
	"strings"

	"tunescore/model"
)

// TrackInfo is the enriched, display-ready view of a raw history or search
// item, including the caller's rating status for the track.
type TrackInfo struct {
	TrackID        string             `json:"trackId"`
	Title          string             `json:"title"`
	Artist         string             `json:"artist"`
	Album          string             `json:"album"`
	AlbumID        string             `json:"albumId"`
	Year           string             `json:"year"`
	AlbumArt       string             `json:"albumArt"`
	Played         string             `json:"played"`
	AlreadyRated   bool               `json:"alreadyRated"`
	ExistingRating *model.RatingEntry `json:"existingRating"`
	AlreadyUnrated bool               `json:"alreadyUnrated"`
}

// Lookup resolves local state for a history item without any remote calls.
// YearFor reads the album-year cache opportunistically (no fetch on miss),
// RatingFor and Unrated consult the record store.
type Lookup struct {
	YearFor   func(albumID string) string
	RatingFor func(trackID string) *model.RatingEntry
	Unrated   func(trackID string) bool
}

// ExtractTrackInfo flattens a raw item into TrackInfo. It is deliberately
// cheap: all enrichment comes from caches and the store, never the network.
func ExtractTrackInfo(item HistoryItem, lookup Lookup) TrackInfo {
	info := TrackInfo{
		TrackID: item.VideoID,
		Title:   item.Title,
		Played:  item.Played,
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}

	var names []string
	for _, a := range item.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	info.Artist = strings.Join(names, ", ")
	if info.Artist == "" {
		info.Artist = "Unknown Artist"
	}

	if item.Album != nil {
		info.Album = item.Album.Name
		info.AlbumID = item.Album.ID
	}

	info.AlbumArt = bestThumbnail(item.Thumbnails)
	if info.AlbumArt == "" && item.VideoID != "" {
		info.AlbumArt = "https://i.ytimg.com/vi/" + item.VideoID + "/hqdefault.jpg"
	}

	if info.AlbumID != "" && lookup.YearFor != nil {
		info.Year = lookup.YearFor(info.AlbumID)
	}
	if lookup.RatingFor != nil {
		info.ExistingRating = lookup.RatingFor(item.VideoID)
		info.AlreadyRated = info.ExistingRating != nil
	}
	if lookup.Unrated != nil {
		info.AlreadyUnrated = lookup.Unrated(item.VideoID)
	}
	return info
}

// bestThumbnail picks the largest rendition and rewrites googleusercontent
// URLs to a fixed full-resolution variant.
func bestThumbnail(thumbs []Thumbnail) string {
	best := ""
	bestArea := -1
	for _, t := range thumbs {
		area := t.Width * t.Height
		if area > bestArea {
			bestArea = area
			best = t.URL
		}
	}
	if best != "" && strings.Contains(best, "lh3.googleusercontent.com") {
		if i := strings.Index(best, "="); i >= 0 {
			best = best[:i]
		}
		best += "=w512-h512-l90-rj"
	}
	return best
}
