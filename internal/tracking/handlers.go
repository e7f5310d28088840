package tracking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/GeoMark/GM-Backend/internal/db"
)

type trackInput struct {
	UserID        string   `json:"user_id"`
	UserName      string   `json:"user_name"`
	GeofenceID    uint     `json:"geofence_id"`
	GeofenceName  string   `json:"geofence_name"`
	EventType     string   `json:"event_type"`
	Timestamp     string   `json:"timestamp"`
	Duration      *float64 `json:"duration"`
	SimulatedHour *int     `json:"simulated_hour"`
}

func TrackEventHandler(w http.ResponseWriter, r *http.Request) {
	var input trackInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.UserID == "" || input.EventType == "" {
		http.Error(w, "user_id and event_type are required", http.StatusBadRequest)
		return
	}
	if input.EventType != EventEntry && input.EventType != EventExit {
		http.Error(w, "event_type must be entry or exit", http.StatusBadRequest)
		return
	}

	ts, err := time.Parse(time.RFC3339, input.Timestamp)
	if err != nil {
		// The simulator emits timestamps without a zone suffix.
		ts, err = time.Parse("2006-01-02T15:04:05", input.Timestamp)
		if err != nil {
			http.Error(w, "Invalid timestamp, expected ISO 8601", http.StatusBadRequest)
			return
		}
	}

	event := Event{
		UserID:        input.UserID,
		UserName:      input.UserName,
		GeofenceID:    input.GeofenceID,
		GeofenceName:  input.GeofenceName,
		EventType:     input.EventType,
		Timestamp:     ts,
		Duration:      input.Duration,
		SimulatedHour: input.SimulatedHour,
	}
	if err := db.DB.Create(&event).Error; err != nil {
		http.Error(w, "Failed to record event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Event tracked successfully"})
}

func ListTrackingHandler(w http.ResponseWriter, r *http.Request) {
	var events []Event
	if err := db.DB.Order("id").Find(&events).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
