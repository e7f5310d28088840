package geofence

import (
	"log"

	"github.com/GeoMark/GM-Backend/internal/db"
)

func Init() {
	// Ensure the geomark schema exists first
	if err := db.EnsureSchema(db.DB, "geomark"); err != nil {
		log.Fatal("Failed to create geomark schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Geofence{}); err != nil {
		log.Fatal("Failed to auto-migrate geofence tables: ", err)
	}
}
