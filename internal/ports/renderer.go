package ports

import "delivery-tracker/internal/domain"

// Renderer redraws one view from the full mirrored state.
// Implementations must not retain or modify records.
type Renderer interface {
	Render(records []domain.KeyedDelivery)
}

// ViewSurface receives rendered frames for a named view.
type ViewSurface interface {
	Publish(view string, payload any)
}
