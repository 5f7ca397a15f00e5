package handlers

import (
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).WithError(err).WithField("path", r.URL.Path).Warn("encode response failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeStoreError maps store and service errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	log := obs.Logger(r.Context()).WithError(err)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, services.ErrEditsUnsupported):
		writeError(w, r, http.StatusNotImplemented, "store does not support edits")
	case errors.Is(err, domain.ErrWriteRejected):
		log.Warn("store rejected write")
		writeError(w, r, http.StatusUnprocessableEntity, "write rejected by store")
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error("store unavailable")
		writeError(w, r, http.StatusServiceUnavailable, "store unavailable")
	default:
		log.Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
