package pattern

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the pattern endpoints on the shared API router.
func RegisterRoutes(r chi.Router) {
	r.Get("/patterns", PatternsHandler)
	r.Get("/eligible_users", EligibleUsersHandler)
}
