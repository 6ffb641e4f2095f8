package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"badbaado/internal/platform/middleware"
	"badbaado/pkg/domerrors"
)

// writeJSON centralizes response encoding for all handlers.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain errors to a consistent JSON envelope. Anything
// without a code is an internal error and keeps its detail out of the
// response.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var de *domerrors.Error
	if errors.As(err, &de) {
		writeJSON(w, domerrors.ToHTTPStatus(de.Code), map[string]string{
			"error":   string(de.Code),
			"message": de.Message,
		})
		return
	}
	logger.ErrorContext(r.Context(), "request failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(domerrors.CodeInternal),
	})
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domerrors.New(domerrors.CodeValidation, "request body is required")
		}
		return domerrors.New(domerrors.CodeValidation, "invalid request body")
	}
	return nil
}

// idParam parses the {id} URL segment.
func idParam(r *http.Request) (uuid.UUID, error) {
	return pathUUID(r, "id")
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domerrors.Newf(domerrors.CodeValidation, "invalid %s", name)
	}
	return id, nil
}

// userID pulls the authenticated donor ID the auth middleware stored.
func userID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		return uuid.Nil, domerrors.New(domerrors.CodeUnauthorized, "invalid token subject")
	}
	return id, nil
}

// adminID pulls the authenticated admin ID the auth middleware stored.
func adminID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.GetAdminID(r.Context()))
	if err != nil {
		return uuid.Nil, domerrors.New(domerrors.CodeUnauthorized, "invalid token subject")
	}
	return id, nil
}
