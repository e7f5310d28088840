package tracking

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the tracking endpoints on the shared API router.
func RegisterRoutes(r chi.Router) {
	r.Post("/track_event", TrackEventHandler)
	r.Get("/tracking", ListTrackingHandler)
}
