package notify

import (
	"log"

	"github.com/GeoMark/GM-Backend/internal/config"
	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/pattern"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

// Init migrates the notification log table and wires the package singletons.
func Init(store tracking.Store, d *pattern.Detector, conf config.NotifyConf, deliverer Deliverer, sug Suggester, logs LogStore) {
	if err := db.EnsureSchema(db.DB, "geomark"); err != nil {
		log.Fatal("Failed to create geomark schema: ", err)
	}

	if err := db.DB.AutoMigrate(&NotificationLog{}); err != nil {
		log.Fatal("Failed to auto-migrate notification tables: ", err)
	}

	detector = d
	suggester = sug
	dispatcher = NewDispatcher(store, deliverer, logs, conf)
	scheduler = NewScheduler()
}

// ActiveScheduler exposes the scheduler for graceful shutdown.
func ActiveScheduler() *Scheduler {
	return scheduler
}
