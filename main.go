package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/GeoMark/GM-Backend/internal/config"
	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/geofence"
	"github.com/GeoMark/GM-Backend/internal/middleware"
	"github.com/GeoMark/GM-Backend/internal/notify"
	"github.com/GeoMark/GM-Backend/internal/pattern"
	"github.com/GeoMark/GM-Backend/internal/simulation"
	"github.com/GeoMark/GM-Backend/internal/tracking"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	for _, key := range []string{"GEMINI_API_KEY", "SENDGRID_API_KEY", "SENDER_EMAIL"} {
		if os.Getenv(key) == "" {
			log.Fatalf("Missing required environment variable: %s", key)
		}
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	geofence.Init()
	tracking.Init()

	store := tracking.GormStore{}
	pattern.Init(store, cfg.Engine)

	sendgrid, err := notify.NewSendGridClient()
	if err != nil {
		log.Fatal("SendGrid setup failed: ", err)
	}
	gemini, err := notify.NewGeminiClient()
	if err != nil {
		log.Fatal("Gemini setup failed: ", err)
	}
	notify.Init(store, pattern.ActiveDetector(), cfg.Notify, sendgrid, gemini, notify.GormLogStore{})
	defer notify.ActiveScheduler().Stop()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.RequestLogger)
	r.Get("/", RootHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/geofences", geofence.SetupRoutes())
	r.Mount("/competitors", geofence.SetupCompetitorRoutes())

	r.Route("/api", func(api chi.Router) {
		tracking.RegisterRoutes(api)
		pattern.RegisterRoutes(api)
		simulation.RegisterRoutes(api)
		notify.RegisterRoutes(api)
	})

	fmt.Printf("Server listening on port :%s...\n", port)

	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal(err)
	}
}
