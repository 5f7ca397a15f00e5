package handlers

import (
	"delivery-tracker/web"
	"net/http"
)

// Index serves the dashboard page that consumes the /ws view stream.
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(web.IndexHTML); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
