package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := h.settings.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views := make([]settingView, 0, len(list))
	for _, s := range list {
		views = append(views, toSettingView(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": views})
}

type updateSettingRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

func (h *Handler) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	updatedBy, err := adminID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req updateSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	setting, err := h.settings.Set(r.Context(), chi.URLParam(r, "key"), req.Value, req.Description, updatedBy)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "setting updated",
		"setting": toSettingView(setting),
	})
}
