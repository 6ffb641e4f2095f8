package httptransport

import "net/http"

type registerHospitalRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func (h *Handler) handleRegisterHospital(w http.ResponseWriter, r *http.Request) {
	var req registerHospitalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	created, err := h.hospitals.Register(r.Context(), req.Name, req.Phone, req.Location)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "hospital registered",
		"hospital": toHospitalView(created),
	})
}

func (h *Handler) handleListHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.hospitals.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views := make([]hospitalView, 0, len(hospitals))
	for _, hosp := range hospitals {
		views = append(views, toHospitalView(hosp))
	}
	writeJSON(w, http.StatusOK, map[string]any{"hospitals": views})
}

type updateHospitalRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) handleUpdateHospital(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req updateHospitalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	updated, err := h.hospitals.SetActive(r.Context(), id, req.IsActive)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hospital": toHospitalView(updated)})
}

func (h *Handler) handleDeleteHospital(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.hospitals.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "hospital deleted"})
}
