package geofence

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", CreateGeofenceHandler)
	r.Get("/", ListGeofencesHandler)
	r.Put("/{geofence_id}", UpdateGeofenceHandler)
	r.Delete("/{geofence_id}", DeleteGeofenceHandler)
	r.Put("/{geofence_id}/toggle", ToggleGeofenceHandler)

	return r
}

func SetupCompetitorRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/{business_type}", CompetitorsHandler)

	return r
}
