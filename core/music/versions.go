package music

import (
	"context"
	"strings"

	"tunescore/model"
)

// Version is one alternate release of a track found on another album by the
// same artist.
type Version struct {
	TrackID        string             `json:"trackId"`
	Title          string             `json:"title"`
	Artist         string             `json:"artist"`
	Album          string             `json:"album"`
	AlbumID        string             `json:"albumId"`
	AlbumArt       string             `json:"albumArt"`
	Year           string             `json:"year"`
	IsAlbumCut     bool               `json:"isAlbum"`
	AlreadyRated   bool               `json:"alreadyRated"`
	ExistingRating *model.RatingEntry `json:"existingRating"`
}

// FindVersions scans the artist's albums for other releases of a track with
// the same title. currentTrackID (and every id already collected) is
// excluded, so each version appears once. The walk is best-effort: an album
// that fails to load is skipped, only the initial album search is fatal.
func FindVersions(ctx context.Context, client Client, title, artist, currentTrackID string, ratingFor func(trackID string) *model.RatingEntry) ([]Version, error) {
	titleLower := strings.ToLower(strings.TrimSpace(title))
	artistLower := strings.ToLower(artist)

	albums, err := client.SearchAlbums(ctx, artist, 15)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	if currentTrackID != "" {
		seen[currentTrackID] = struct{}{}
	}

	versions := []Version{}
	for _, result := range albums {
		if result.BrowseID == "" {
			continue
		}
		if !creditsArtist(result.Artists, artistLower) {
			continue
		}

		album, err := client.FetchAlbum(ctx, result.BrowseID)
		if err != nil {
			continue
		}
		albumArt := ""
		if len(album.Thumbnails) > 0 {
			albumArt = album.Thumbnails[len(album.Thumbnails)-1].URL
		}

		for _, track := range album.Tracks {
			if track.VideoID == "" {
				continue
			}
			if strings.ToLower(strings.TrimSpace(track.Title)) != titleLower {
				continue
			}
			if _, dup := seen[track.VideoID]; dup {
				continue
			}
			seen[track.VideoID] = struct{}{}

			var existing *model.RatingEntry
			if ratingFor != nil {
				existing = ratingFor(track.VideoID)
			}
			versions = append(versions, Version{
				TrackID:        track.VideoID,
				Title:          track.Title,
				Artist:         artist,
				Album:          album.Title,
				AlbumID:        result.BrowseID,
				AlbumArt:       albumArt,
				Year:           album.Year,
				IsAlbumCut:     strings.ToLower(album.Title) != titleLower,
				AlreadyRated:   existing != nil,
				ExistingRating: existing,
			})
		}
	}
	return versions, nil
}

// creditsArtist reports whether any credited artist name contains the
// queried artist, so albums surfaced by the search but belonging to someone
// else are skipped.
func creditsArtist(artists []ArtistRef, artistLower string) bool {
	for _, a := range artists {
		if strings.Contains(strings.ToLower(a.Name), artistLower) {
			return true
		}
	}
	return false
}
