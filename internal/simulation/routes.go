package simulation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the simulation endpoints on the shared API router.
func RegisterRoutes(r chi.Router) {
	r.Post("/run_simulation", RunSimulationHandler)
	r.Get("/run_simulation_results", SimulationResultsHandler)
	r.Get("/simulated_users", SimulatedUsersHandler)
}
