package server

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tunescore/logger"
)

// ExportCSVHandler dumps the full rating collection as CSV for offline
// analysis. Tags are joined with "; " into a single column.
func (h *APIHandler) ExportCSVHandler(w http.ResponseWriter, r *http.Request) {
	ratings := h.store.Ratings()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=song_ratings.csv")

	writer := csv.NewWriter(w)
	header := []string{"id", "trackId", "title", "artist", "album", "year",
		"albumArt", "rating", "ratedAt", "updatedAt", "tags", "notes"}
	if err := writer.Write(header); err != nil {
		logger.Error("csv export failed", logger.ErrorField(err))
		return
	}

	for _, e := range ratings {
		updatedAt := ""
		if e.UpdatedAt != nil {
			updatedAt = e.UpdatedAt.Format(time.RFC3339)
		}
		record := []string{
			e.ID,
			e.TrackID,
			e.Title,
			e.Artist,
			e.Album,
			e.Year,
			e.AlbumArt,
			strconv.FormatFloat(e.Rating, 'f', -1, 64),
			e.RatedAt.Format(time.RFC3339),
			updatedAt,
			strings.Join(e.Tags, "; "),
			e.Notes,
		}
		if err := writer.Write(record); err != nil {
			logger.Error("csv export failed", logger.ErrorField(err))
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Error("csv export failed", logger.ErrorField(err))
	}
}

// ExportJSONHandler dumps the full rating collection as formatted JSON.
func (h *APIHandler) ExportJSONHandler(w http.ResponseWriter, r *http.Request) {
	ratings := h.store.Ratings()

	data, err := json.MarshalIndent(ratings, "", "  ")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to serialize ratings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=song_ratings.json")
	if _, err := w.Write(data); err != nil {
		logger.Error("json export failed", logger.ErrorField(err))
	}
}
