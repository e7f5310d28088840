package tracking

import (
	"log"

	"github.com/GeoMark/GM-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "geomark"); err != nil {
		log.Fatal("Failed to create geomark schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Event{}); err != nil {
		log.Fatal("Failed to auto-migrate tracking tables: ", err)
	}
}
