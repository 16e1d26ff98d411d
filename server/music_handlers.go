package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"tunescore/core/music"
)

func (h *APIHandler) lookup() music.Lookup {
	return music.Lookup{
		YearFor:   h.albumYears.Peek,
		RatingFor: h.store.FindRatingByTrackID,
		Unrated:   h.store.IsUnrated,
	}
}

// StatusHandler reports whether the remote music client is configured.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": h.client != nil,
	})
}

// NowPlayingHandler returns the most recently played track, served from the
// short-TTL history cache.
func (h *APIHandler) NowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondError(w, http.StatusServiceUnavailable, "music service not configured")
		return
	}

	history, ok := h.history.Get(r.Context())
	if !ok || len(history) == 0 {
		respondJSON(w, http.StatusOK, map[string]interface{}{"track": nil})
		return
	}

	info := music.ExtractTrackInfo(history[0], h.lookup())
	respondJSON(w, http.StatusOK, map[string]interface{}{"track": info})
}

// SearchHandler searches the music service for songs and returns results in
// track-info shape.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondError(w, http.StatusServiceUnavailable, "music service not configured")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"results": []music.TrackInfo{}})
		return
	}

	items, err := h.client.Search(r.Context(), q, 20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]music.TrackInfo, 0, len(items))
	lookup := h.lookup()
	for _, item := range items {
		results = append(results, music.ExtractTrackInfo(item, lookup))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// FindVersionsHandler finds other releases of a song by walking the artist's
// albums, flagging the versions already rated.
func (h *APIHandler) FindVersionsHandler(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondError(w, http.StatusServiceUnavailable, "music service not configured")
		return
	}

	q := r.URL.Query()
	title := strings.TrimSpace(q.Get("title"))
	artist := strings.TrimSpace(q.Get("artist"))
	trackID := strings.TrimSpace(q.Get("trackId"))
	if title == "" || artist == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"versions": []music.Version{}})
		return
	}

	versions, err := music.FindVersions(r.Context(), h.client, title, artist, trackID, h.store.FindRatingByTrackID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"versions": versions})
}

// albumTrackInfo is one album track with the caller's rating status.
type albumTrackInfo struct {
	music.TrackInfo
	TrackNumber int `json:"trackNumber"`
}

// AlbumTracksHandler lists all tracks on an album with rated flags resolved
// against the store.
func (h *APIHandler) AlbumTracksHandler(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondError(w, http.StatusServiceUnavailable, "music service not configured")
		return
	}

	albumID := strings.TrimSpace(r.URL.Query().Get("albumId"))
	if albumID == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": []albumTrackInfo{}})
		return
	}

	album, err := h.client.FetchAlbum(r.Context(), albumID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	albumArt := ""
	if len(album.Thumbnails) > 0 {
		albumArt = album.Thumbnails[len(album.Thumbnails)-1].URL
	}

	tracks := make([]albumTrackInfo, 0, len(album.Tracks))
	for i, t := range album.Tracks {
		var names []string
		for _, a := range t.Artists {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		artist := strings.Join(names, ", ")
		if artist == "" {
			artist = "Unknown Artist"
		}
		title := t.Title
		if title == "" {
			title = "Unknown"
		}

		existing := h.store.FindRatingByTrackID(t.VideoID)
		tracks = append(tracks, albumTrackInfo{
			TrackInfo: music.TrackInfo{
				TrackID:        t.VideoID,
				Title:          title,
				Artist:         artist,
				Album:          album.Title,
				AlbumID:        albumID,
				Year:           album.Year,
				AlbumArt:       albumArt,
				AlreadyRated:   existing != nil,
				ExistingRating: existing,
				AlreadyUnrated: h.store.IsUnrated(t.VideoID),
			},
			TrackNumber: i + 1,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"album":  album.Title,
		"year":   album.Year,
	})
}

// EnrichAlbumHandler resolves the original release year for an album,
// called lazily by the frontend. Failures are negatively cached.
func (h *APIHandler) EnrichAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID := mux.Vars(r)["albumId"]
	year := h.albumYears.Year(r.Context(), albumID)
	respondJSON(w, http.StatusOK, map[string]string{"year": year})
}
