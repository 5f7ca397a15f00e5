package handlers

import (
	"delivery-tracker/internal/api/dto"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"delivery-tracker/internal/services"
	"net/http"
	"slices"
	"time"
)

// DeliveryHandler writes through the store and reads from the local mirror.
// Writes are never applied to the mirror directly; they come back as events.
type DeliveryHandler struct {
	Store      ports.DeliveryStore
	Reader     ports.DeliveryReader
	Collection string
	Now        func() time.Time
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DeliveryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	key, err := services.SubmitDelivery(r.Context(), h.Store, h.Collection, req.ToDomain(), h.Now())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.CreateDeliveryResponse{Key: key})
}

// List returns the mirrored records, newest timestamp first.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.Reader.Snapshot()
	slices.SortStableFunc(records, func(a, b domain.KeyedDelivery) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})

	res := dto.ListDeliveriesResponse{
		Deliveries: make([]dto.DeliveryResponse, 0, len(records)),
	}
	for _, rec := range records {
		res.Deliveries = append(res.Deliveries, dto.DeliveryResponse{Key: rec.Key, Delivery: rec.Delivery})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req dto.DeliveryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := services.UpdateDelivery(r.Context(), h.Store, h.Reader, h.Collection, key, req.ToDomain(), h.Now())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := services.RemoveDelivery(r.Context(), h.Store, h.Collection, key); err != nil {
		writeStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
