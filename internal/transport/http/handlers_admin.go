package httptransport

import (
	"net/http"

	"badbaado/internal/request"
	"badbaado/internal/user"
	"badbaado/pkg/bloodtype"
)

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admins.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats": map[string]int{
			"totalUsers":         stats.TotalUsers,
			"totalRequests":      stats.TotalRequests,
			"pendingRequests":    stats.PendingRequests,
			"completedDonations": stats.CompletedDonations,
		},
	})
}

func (h *Handler) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := user.Filter{
		Search:    q.Get("search"),
		BloodType: bloodtype.BloodType(q.Get("bloodType")),
		Location:  q.Get("location"),
	}
	switch q.Get("status") {
	case "active":
		active := true
		f.Active = &active
	case "inactive":
		active := false
		f.Active = &active
	}

	users, err := h.users.List(r.Context(), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserViews(users)})
}

type setUserStatusRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) handleAdminSetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req setUserStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	u, err := h.users.SetActive(r.Context(), id, req.IsActive)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserView(u)})
}

func (h *Handler) handleAdminListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	requests, err := h.requests.List(r.Context(), request.Filter{
		Status:    request.Status(q.Get("status")),
		BloodType: bloodtype.BloodType(q.Get("bloodType")),
		Location:  q.Get("location"),
		Urgency:   request.Urgency(q.Get("urgency")),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": toRequestViews(requests)})
}
