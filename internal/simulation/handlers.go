package simulation

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/geofence"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

type runInput struct {
	NumUsers int `json:"num_users"`
	NumWeeks int `json:"num_weeks"`
}

func RunSimulationHandler(w http.ResponseWriter, r *http.Request) {
	input := runInput{NumUsers: 5, NumWeeks: 4}
	if r.Body != nil {
		// An empty body keeps the defaults.
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	var fences []geofence.Geofence
	if err := db.DB.Find(&fences).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fences) == 0 {
		http.Error(w, "No geofences available. Please create geofences before running a simulation.", http.StatusBadRequest)
		return
	}
	if input.NumUsers < 1 || input.NumWeeks < 1 {
		http.Error(w, "Number of users and weeks must be at least 1.", http.StatusBadRequest)
		return
	}

	// A new run replaces all tracking data.
	if err := tracking.DeleteAll(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	g := NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	users := make([]SimUser, 0, input.NumUsers)
	var allTriggers []tracking.Event
	for i := 1; i <= input.NumUsers; i++ {
		user, triggers, err := g.GenerateUserBehavior(i, input.NumWeeks, fences)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		users = append(users, user)
		allTriggers = append(allTriggers, triggers...)
	}

	if err := tracking.CreateBatch(r.Context(), allTriggers); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"users":    users,
		"triggers": allTriggers,
	})
}

func SimulationResultsHandler(w http.ResponseWriter, r *http.Request) {
	var events []tracking.Event
	if err := db.DB.Order("id").Find(&events).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"triggers": events})
}

func SimulatedUsersHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("dataset")
	if name == "" {
		name = "patterns"
	}

	data, err := BuildDataset(name)
	if err != nil {
		http.Error(w, "Invalid dataset", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
