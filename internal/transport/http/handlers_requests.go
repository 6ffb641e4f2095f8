package httptransport

import (
	"net/http"

	"badbaado/internal/request"
	"badbaado/pkg/bloodtype"
)

type createRequestRequest struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	Location    string `json:"location"`
	Hospital    string `json:"hospital"`
	BloodType   string `json:"bloodType"`
	Urgency     string `json:"urgency"`
	Description string `json:"description"`
	MaxDonors   int    `json:"maxDonors"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.requests.Create(r.Context(), requesterID, request.CreateInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Gender:      req.Gender,
		Age:         req.Age,
		Location:    req.Location,
		Hospital:    req.Hospital,
		BloodType:   bloodtype.BloodType(req.BloodType),
		Urgency:     request.Urgency(req.Urgency),
		Description: req.Description,
		MaxDonors:   req.MaxDonors,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "blood request created",
		"request": toRequestView(created),
	})
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) handleRequestStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.requests.Stats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"totalRequests":     stats.Total,
		"pendingRequests":   stats.Pending,
		"approvedRequests":  stats.Approved,
		"rejectedRequests":  stats.Rejected,
		"completedRequests": stats.Completed,
		"cancelledRequests": stats.Cancelled,
	})
}

func (h *Handler) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.Pending(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": toRequestViews(requests)})
}

func (h *Handler) handleApprovedRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.Approved(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": toRequestViews(requests)})
}

func (h *Handler) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	requesterID, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	requests, err := h.requests.Mine(r.Context(), requesterID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": toRequestViews(requests)})
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req, err := h.requests.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"request": toRequestView(req)})
}

// handleCancelRequest serves DELETE on a request; the canonical behavior is a
// cancellation, keeping the record and its audit trail.
func (h *Handler) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	requesterID, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	cancelled, err := h.requests.Cancel(r.Context(), id, requesterID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "blood request cancelled",
		"request": toRequestView(cancelled),
	})
}

func (h *Handler) handleRequestDonations(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.requests.Get(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	donations, err := h.donations.ListByRequest(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": toDonationViews(donations)})
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	approver, err := adminID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result, err := h.requests.Approve(r.Context(), id, approver)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":             "request approved",
		"request":             toRequestView(result.Request),
		"eligibleDonorsCount": result.EligibleDonors,
		"donorsNotified":      result.DonorsNotified,
		"requesterNotified":   result.RequesterNotified,
	})
}

type rejectRequestRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	rejecter, err := adminID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req rejectRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	rejected, err := h.requests.Reject(r.Context(), id, rejecter, req.Reason)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "request rejected",
		"request": toRequestView(rejected),
	})
}

func (h *Handler) handleCompleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	completer, err := adminID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	completed, err := h.requests.Complete(r.Context(), id, &completer)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "request completed",
		"request": toRequestView(completed),
	})
}

func (h *Handler) handleEligibleDonors(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	donors, err := h.requests.EligibleDonors(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"donors": toUserViews(donors),
		"count":  len(donors),
	})
}
