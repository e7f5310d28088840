package tracking

import (
	"time"
)

// Event types recorded against a geofence.
const (
	EventEntry = "entry"
	EventExit  = "exit"
)

// Event is one timestamped geofence interaction. Rows are append-only: they
// are written by the tracking endpoint or the simulator, never mutated, and
// only deleted in bulk when a fresh simulation run starts.
type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"index;not null" json:"user_id"`
	UserName      string    `json:"user_name"`
	GeofenceID    uint      `gorm:"index" json:"geofence_id"`
	GeofenceName  string    `json:"geofence_name"`
	EventType     string    `gorm:"index;not null" json:"event_type"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
	Duration      *float64  `json:"duration,omitempty"`
	SimulatedHour *int      `json:"simulated_hour,omitempty"`
}

func (Event) TableName() string {
	return "geomark.tracking_events"
}
