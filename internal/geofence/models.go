package geofence

import (
	"encoding/json"
	"fmt"
)

// LatLng is one polygon vertex in WGS84.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geofence is a named polygonal zone tied to a business category. The vertex
// list is stored as a JSON text column so the polygon round-trips exactly as
// the client drew it, point order included.
type Geofence struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BusinessType string `gorm:"not null" json:"business_type"`
	Name         string `gorm:"not null" json:"name"`
	Coordinates  string `gorm:"type:text;not null" json:"-"`
	Active       bool   `gorm:"default:false" json:"active"`
}

func (Geofence) TableName() string {
	return "geomark.geofences"
}

// EncodeCoordinates serializes a vertex list for storage.
func EncodeCoordinates(points []LatLng) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("coordinates must contain at least one point")
	}
	raw, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("encoding coordinates: %w", err)
	}
	return string(raw), nil
}

// DecodeCoordinates parses a stored vertex list.
func DecodeCoordinates(raw string) ([]LatLng, error) {
	var points []LatLng
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return nil, fmt.Errorf("decoding coordinates: %w", err)
	}
	return points, nil
}

// geofenceOut is the wire shape with coordinates decoded.
type geofenceOut struct {
	ID           uint     `json:"id"`
	BusinessType string   `json:"business_type"`
	Name         string   `json:"name"`
	Coordinates  []LatLng `json:"coordinates"`
	Active       bool     `json:"active"`
}

func toOut(g Geofence) (geofenceOut, error) {
	points, err := DecodeCoordinates(g.Coordinates)
	if err != nil {
		return geofenceOut{}, err
	}
	return geofenceOut{
		ID:           g.ID,
		BusinessType: g.BusinessType,
		Name:         g.Name,
		Coordinates:  points,
		Active:       g.Active,
	}, nil
}
