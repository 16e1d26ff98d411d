package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"tunescore/cache"
	"tunescore/core/music"
	"tunescore/logger"
	"tunescore/store"
)

// APIHandler serves all API requests.
type APIHandler struct {
	store      *store.Store
	client     music.Client
	history    *cache.HistoryCache
	albumYears *cache.AlbumYearCache
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	st *store.Store,
	client music.Client,
	history *cache.HistoryCache,
	albumYears *cache.AlbumYearCache,
) *APIHandler {
	return &APIHandler{
		store:      st,
		client:     client,
		history:    history,
		albumYears: albumYears,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondStoreError maps the store's error taxonomy onto HTTP statuses.
// Duplicates get an explicit flag so the UI can offer an "edit instead"
// path.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateKey):
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     "Song already rated",
			"duplicate": true,
		})
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("store operation failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
