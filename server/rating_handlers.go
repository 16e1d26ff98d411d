package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tunescore/core/analytics"
	"tunescore/core/query"
	"tunescore/model"
)

// GetRatingsHandler lists ratings with filtering, smart search, sorting and
// pagination. The summary stats block always covers the full collection, not
// the filtered page.
func (h *APIHandler) GetRatingsHandler(w http.ResponseWriter, r *http.Request) {
	all := h.store.Ratings()

	q := r.URL.Query()
	filter := query.Filter{
		Artist: q.Get("artist"),
		Search: q.Get("search"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_rating"), 64); err == nil {
		filter.MinRating = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_rating"), 64); err == nil {
		filter.MaxRating = &v
	}

	sortBy := q.Get("sort_by")
	if sortBy == "" {
		sortBy = "ratedAt"
	}
	sortOrder := q.Get("sort_order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	limit := 50
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		offset = v
	}

	filtered := query.Apply(all, filter)
	query.Sort(filtered, sortBy, sortOrder)
	page := query.Paginate(filtered, offset, limit)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ratings": page.Items,
		"total":   page.Total,
		"offset":  page.Offset,
		"hasMore": page.HasMore,
		"stats":   analytics.Summarize(all),
	})
}

type createRatingRequest struct {
	TrackID  string   `json:"trackId"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Album    string   `json:"album"`
	Year     string   `json:"year"`
	AlbumArt string   `json:"albumArt"`
	Rating   *float64 `json:"rating"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

// CreateRatingHandler saves a new rating. Duplicate track ids are refused.
func (h *APIHandler) CreateRatingHandler(w http.ResponseWriter, r *http.Request) {
	var req createRatingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TrackID == "" {
		respondError(w, http.StatusBadRequest, "trackId is required")
		return
	}
	if req.Rating == nil {
		respondError(w, http.StatusBadRequest, "rating is required")
		return
	}

	entry, err := h.store.CreateRating(model.RatingEntry{
		TrackID:  req.TrackID,
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Year:     req.Year,
		AlbumArt: req.AlbumArt,
		Rating:   *req.Rating,
		Tags:     req.Tags,
		Notes:    req.Notes,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// UpdateRatingHandler edits an existing rating entry.
func (h *APIHandler) UpdateRatingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch model.RatingPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	entry, err := h.store.UpdateRating(id, patch)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// DeleteRatingHandler removes a rating entry.
func (h *APIHandler) DeleteRatingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.DeleteRating(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// AnalyticsHandler serves the full analytics report. The shrinkage constant
// defaults to the stored setting and can be overridden per request with the
// c query parameter; splitArtists=1 splits multi-artist credits.
func (h *APIHandler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	settings := h.store.Settings()

	shrinkageC := settings.ShrinkageC
	if v, err := strconv.ParseFloat(r.URL.Query().Get("c"), 64); err == nil && v >= 0 {
		shrinkageC = v
	}
	splitArtists := r.URL.Query().Get("splitArtists") == "1"

	report := analytics.Compute(h.store.Ratings(), shrinkageC, splitArtists)
	respondJSON(w, http.StatusOK, report)
}
