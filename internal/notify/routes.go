package notify

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the notification endpoints on the shared API router.
func RegisterRoutes(r chi.Router) {
	r.Post("/send_notifications", SendNotificationsHandler)
	r.Post("/schedule_notifications", ScheduleNotificationsHandler)
	r.Post("/suggest_message", SuggestMessageHandler)
	r.Get("/notifications/history", HistoryHandler)
}
