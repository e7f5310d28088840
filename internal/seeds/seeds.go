package seeds

import (
	"fmt"

	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/geofence"
)

// demoZones are starter geofences around Leeds city centre so a fresh
// install has something to simulate against.
var demoZones = []struct {
	businessType string
	name         string
	lat, lng     float64
}{
	{"cafe", "Demo Cafe", 53.7960, -1.5440},
	{"gym", "Demo Gym", 53.7985, -1.5430},
	{"restaurant", "Demo Restaurant", 53.7970, -1.5480},
}

// SeedAll inserts the demo geofences, skipping any that already exist by
// name. Safe to run repeatedly.
func SeedAll() error {
	for _, zone := range demoZones {
		encoded, err := geofence.EncodeCoordinates(squareAround(zone.lat, zone.lng))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", zone.name, err)
		}

		fence := geofence.Geofence{
			BusinessType: zone.businessType,
			Name:         zone.name,
			Coordinates:  encoded,
			Active:       true,
		}

		result := db.DB.Where("name = ?", zone.name).FirstOrCreate(&fence)
		if result.Error != nil {
			return fmt.Errorf("seeding %s: %w", zone.name, result.Error)
		}
		if result.RowsAffected > 0 {
			fmt.Printf("Seeded geofence %q (%s)\n", zone.name, zone.businessType)
		} else {
			fmt.Printf("Geofence %q already present, skipping\n", zone.name)
		}
	}
	return nil
}

// squareAround builds a small square polygon, roughly 100m per side, centred
// on the given point.
func squareAround(lat, lng float64) []geofence.LatLng {
	const d = 0.0005
	return []geofence.LatLng{
		{Lat: lat - d, Lng: lng - d},
		{Lat: lat + d, Lng: lng - d},
		{Lat: lat + d, Lng: lng + d},
		{Lat: lat - d, Lng: lng + d},
	}
}
