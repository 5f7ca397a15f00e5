package api

import (
	"delivery-tracker/internal/api/handlers"
	"delivery-tracker/internal/ports"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Deps are the collaborators the HTTP API needs. Concrete adapters are
// chosen by cmd/server.
type Deps struct {
	Store      ports.DeliveryStore
	Reader     ports.DeliveryReader
	Collection string
	// Surface serves the WebSocket view stream on GET /ws.
	Surface http.Handler
	Logger  logrus.FieldLogger
	Now     func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Reader: d.Reader}
	deliveries := &handlers.DeliveryHandler{
		Store:      d.Store,
		Reader:     d.Reader,
		Collection: d.Collection,
		Now:        d.Now,
	}

	mux.HandleFunc("GET /health", health.Check)
	mux.HandleFunc("GET /deliveries", deliveries.List)
	mux.HandleFunc("POST /deliveries", deliveries.Create)
	mux.HandleFunc("PUT /deliveries/{key}", deliveries.Update)
	mux.HandleFunc("DELETE /deliveries/{key}", deliveries.Delete)
	if d.Surface != nil {
		mux.Handle("GET /ws", d.Surface)
	}
	mux.HandleFunc("GET /{$}", handlers.Index)

	return requestContextMiddleware(d.Logger, loggingMiddleware(mux))
}
