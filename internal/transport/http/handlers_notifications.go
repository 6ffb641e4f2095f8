package httptransport

import (
	"errors"
	"net/http"

	"badbaado/pkg/domerrors"
	"badbaado/pkg/platform/sentinel"
)

func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var isRead *bool
	switch r.URL.Query().Get("isRead") {
	case "true":
		v := true
		isRead = &v
	case "false":
		v := false
		isRead = &v
	}

	notifications, err := h.inbox.ListByUser(r.Context(), id, isRead)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, toNotificationView(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": views})
}

func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	uid, err := userID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	n, err := h.inbox.MarkRead(r.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			err = domerrors.New(domerrors.CodeNotFound, "notification not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			err = domerrors.New(domerrors.CodeForbidden, "not authorized to update this notification")
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notification": toNotificationView(n)})
}
