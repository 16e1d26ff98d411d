package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"tunescore/model"
	"tunescore/store"
)

// GetUnratedHandler lists all skipped tracks.
func (h *APIHandler) GetUnratedHandler(w http.ResponseWriter, r *http.Request) {
	unrated := h.store.UnratedEntries()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unrated": unrated,
		"total":   len(unrated),
	})
}

type addUnratedRequest struct {
	TrackID  string `json:"trackId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	AlbumID  string `json:"albumId"`
	Year     string `json:"year"`
	AlbumArt string `json:"albumArt"`
}

// AddUnratedHandler records a skipped track. Skipping a track that is
// already rated or already skipped is a benign no-op, reported as such.
func (h *APIHandler) AddUnratedHandler(w http.ResponseWriter, r *http.Request) {
	var req addUnratedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TrackID == "" {
		respondError(w, http.StatusBadRequest, "trackId is required")
		return
	}

	entry, err := h.store.AddUnrated(model.UnratedEntry{
		TrackID:  req.TrackID,
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		AlbumID:  req.AlbumID,
		Year:     req.Year,
		AlbumArt: req.AlbumArt,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyRated):
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"skipped": true, "reason": "already rated",
			})
		case errors.Is(err, store.ErrAlreadyUnrated):
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"skipped": true, "reason": "already in unrated",
			})
		default:
			respondStoreError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// DeleteUnratedHandler dismisses one skipped track.
func (h *APIHandler) DeleteUnratedHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.DeleteUnrated(id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteAllUnratedHandler dismisses every skipped track.
func (h *APIHandler) DeleteAllUnratedHandler(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteAllUnrated()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// PromoteUnratedHandler rates a skipped track, moving it into the rated set
// in one step.
func (h *APIHandler) PromoteUnratedHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch model.RatingPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	entry, err := h.store.PromoteUnrated(id, patch)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}
