package server

import (
	"net/http"

	"tunescore/model"
)

// GetSettingsHandler returns the current settings.
func (h *APIHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Settings())
}

// UpdateSettingsHandler applies a partial settings update. Bounds that would
// invert the rating range are rejected and the stored settings stay in
// force.
func (h *APIHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var patch model.SettingsPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	settings, err := h.store.UpdateSettings(patch)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}
