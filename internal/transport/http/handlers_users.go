package httptransport

import (
	"net/http"

	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
)

type findByPhoneRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) handleFindByPhone(w http.ResponseWriter, r *http.Request) {
	var req findByPhoneRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	u, err := h.users.FindByPhone(r.Context(), req.Phone)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserView(u)})
}

func (h *Handler) handleUserCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.users.Count(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"totalUsers": n})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserView(u)})
}

type updateProfileRequest struct {
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
	Location  string `json:"location"`
	BloodType string `json:"bloodType"`
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), id, user.UpdateProfileInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Age:       req.Age,
		Location:  req.Location,
		BloodType: bloodtype.BloodType(req.BloodType),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserView(u)})
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	e, err := h.users.Eligibility(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isEligible":        e.IsEligible,
		"lastDonation":      e.LastDonation,
		"daysToEligibility": e.DaysToEligibility,
		"totalDonations":    e.TotalDonations,
	})
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	deactivatedAt, err := h.users.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "account deactivated",
		"deactivatedAt": deactivatedAt,
	})
}

func (h *Handler) handleUserDonations(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	donations, err := h.donations.ListByDonor(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": toDonationViews(donations)})
}

func (h *Handler) handleUserLastDonation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	last, err := h.donations.LastCompleted(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if last == nil {
		writeJSON(w, http.StatusOK, map[string]any{"lastDonation": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lastDonation": toDonationView(last),
		"completedAt":  last.CompletedAt,
	})
}
