package httptransport

import (
	"net/http"

	"github.com/google/uuid"

	"badbaado/internal/donation"
)

type recordDonationRequest struct {
	RequestID uuid.UUID `json:"requestId"`
	Notes     string    `json:"notes"`
}

func (h *Handler) handleRecordDonation(w http.ResponseWriter, r *http.Request) {
	donorID, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req recordDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.donations.RecordResponse(r.Context(), req.RequestID, donorID, req.Notes)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":           "donation response recorded",
		"donation":          toDonationView(result.Donation),
		"donorsCount":       result.DonorsCount,
		"requestCompleted":  result.RequestCompleted,
		"requesterNotified": result.RequesterNotified,
	})
}

func (h *Handler) handleMyDonations(w http.ResponseWriter, r *http.Request) {
	donorID, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	donations, err := h.donations.Mine(r.Context(), donorID, donation.Status(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"donations": toDonationViews(donations)})
}

type advanceDonationRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleAdvanceDonation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	donorID, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req advanceDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	d, err := h.donations.AdvanceStatus(r.Context(), id, donorID, donation.Status(req.Status))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "donation status updated",
		"donation": toDonationView(d),
	})
}
