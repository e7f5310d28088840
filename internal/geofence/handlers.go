package geofence

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type createInput struct {
	BusinessType string   `json:"business_type"`
	Name         string   `json:"name"`
	Coordinates  []LatLng `json:"coordinates"`
}

func CreateGeofenceHandler(w http.ResponseWriter, r *http.Request) {
	var input createInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.BusinessType == "" || input.Name == "" {
		http.Error(w, "business_type and name are required", http.StatusBadRequest)
		return
	}

	encoded, err := EncodeCoordinates(input.Coordinates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// New geofences start inactive until toggled on the dashboard.
	fence := Geofence{
		BusinessType: input.BusinessType,
		Name:         input.Name,
		Coordinates:  encoded,
		Active:       false,
	}
	if err := db.DB.Create(&fence).Error; err != nil {
		http.Error(w, "Failed to create geofence", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Geofence created",
		"id":      fence.ID,
	})
}

func ListGeofencesHandler(w http.ResponseWriter, r *http.Request) {
	var fences []Geofence
	if err := db.DB.Order("id").Find(&fences).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]geofenceOut, 0, len(fences))
	for _, f := range fences {
		o, err := toOut(f)
		if err != nil {
			http.Error(w, "Corrupt coordinate data for geofence "+strconv.Itoa(int(f.ID)), http.StatusInternalServerError)
			return
		}
		out = append(out, o)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type updateInput struct {
	BusinessType *string  `json:"business_type"`
	Name         *string  `json:"name"`
	Coordinates  []LatLng `json:"coordinates"`
	Active       *bool    `json:"active"`
}

func UpdateGeofenceHandler(w http.ResponseWriter, r *http.Request) {
	fence, ok := findGeofence(w, r)
	if !ok {
		return
	}

	var input updateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if input.BusinessType != nil {
		fence.BusinessType = *input.BusinessType
	}
	if input.Name != nil {
		fence.Name = *input.Name
	}
	if input.Active != nil {
		fence.Active = *input.Active
	}
	// Coordinates are always taken from the request; an update redraws the
	// polygon.
	encoded, err := EncodeCoordinates(input.Coordinates)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fence.Coordinates = encoded

	if err := db.DB.Save(&fence).Error; err != nil {
		http.Error(w, "Failed to update geofence", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Geofence updated"})
}

func DeleteGeofenceHandler(w http.ResponseWriter, r *http.Request) {
	fence, ok := findGeofence(w, r)
	if !ok {
		return
	}

	if err := db.DB.Delete(&fence).Error; err != nil {
		http.Error(w, "Failed to delete geofence", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Geofence deleted"})
}

func ToggleGeofenceHandler(w http.ResponseWriter, r *http.Request) {
	fence, ok := findGeofence(w, r)
	if !ok {
		return
	}

	if err := db.DB.Model(&fence).Update("active", !fence.Active).Error; err != nil {
		http.Error(w, "Failed to toggle geofence", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Geofence toggled"})
}

func CompetitorsHandler(w http.ResponseWriter, r *http.Request) {
	businessType := chi.URLParam(r, "business_type")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CompetitorsFor(businessType))
}

// findGeofence resolves the {geofence_id} URL param and writes the error
// response itself when the fence is missing or the ID malformed.
func findGeofence(w http.ResponseWriter, r *http.Request) (Geofence, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "geofence_id"))
	if err != nil {
		http.Error(w, "Invalid geofence ID", http.StatusBadRequest)
		return Geofence{}, false
	}

	var fence Geofence
	if err := db.DB.First(&fence, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Geofence not found", http.StatusNotFound)
		} else {
			http.Error(w, "DB error", http.StatusInternalServerError)
		}
		return Geofence{}, false
	}
	return fence, true
}
