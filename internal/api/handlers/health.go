package handlers

import (
	"delivery-tracker/internal/ports"
	"net/http"
)

// HealthHandler provides a minimal liveness check endpoint.
type HealthHandler struct {
	Reader ports.DeliveryReader
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"status": "ok"}
	if h.Reader != nil {
		res["records"] = h.Reader.Len()
	}
	writeJSON(w, r, http.StatusOK, res)
}
