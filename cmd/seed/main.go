package main

import (
	"log"

	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/geofence"
	"github.com/GeoMark/GM-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	geofence.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
