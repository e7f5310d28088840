package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/metrics"
	"github.com/GeoMark/GM-Backend/internal/pattern"
)

// Package singletons configured in Init, following the module convention.
var (
	dispatcher *Dispatcher
	scheduler  *Scheduler
	suggester  Suggester
	detector   *pattern.Detector
)

type batchInput struct {
	UserIDs         []string `json:"user_ids"`
	Channels        []string `json:"channels"`
	MessageTemplate string   `json:"message_template"`
	Style           string   `json:"style"`
}

func (in *batchInput) validate() string {
	if len(in.UserIDs) == 0 || len(in.Channels) == 0 || in.MessageTemplate == "" {
		return "Missing required fields"
	}
	if in.Style == "" {
		in.Style = "neutral"
	}
	return ""
}

func SendNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	var input batchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := input.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	results, err := dispatcher.SendBatch(r.Context(), input.UserIDs, input.Channels, input.MessageTemplate, input.Style)
	if err != nil {
		http.Error(w, "Notification dispatch failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":             "success",
		"sent_notifications": results,
	})
}

type scheduledTime struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Time     string `json:"time"`
}

func ScheduleNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	var input batchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := input.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	patterns, err := dispatcher.ResolvePatterns(r.Context(), input.UserIDs)
	if err != nil {
		http.Error(w, "Pattern lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	times := make([]scheduledTime, 0, len(input.UserIDs))
	for _, userID := range input.UserIDs {
		p, ok := patterns[userID]
		if !ok {
			continue
		}

		weekday, hour, err := detector.RecommendedSendSlot(r.Context(), userID)
		if errors.Is(err, pattern.ErrNoPattern) {
			times = append(times, scheduledTime{UserID: userID, UserName: p.UserName, Time: pattern.NoPatternSentinel})
			continue
		}
		if err != nil {
			http.Error(w, "Send-time selection failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		message := Personalize(p, input.MessageTemplate, input.Style)
		sendAt := nextOccurrence(time.Now(), weekday, hour)

		// Keyed by user ID: a reschedule replaces any pending send.
		user := p
		scheduler.Schedule(userID, sendAt, func() {
			dispatcher.SendTo(context.Background(), user, "email", message)
		})

		times = append(times, scheduledTime{
			UserID:   userID,
			UserName: p.UserName,
			Time:     pattern.FormatSendSlot(weekday, hour),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "success",
		"scheduled_times": times,
	})
}

type suggestInput struct {
	UserIDs []string `json:"user_ids"`
	Style   string   `json:"style"`
}

func SuggestMessageHandler(w http.ResponseWriter, r *http.Request) {
	var input suggestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(input.UserIDs) == 0 {
		http.Error(w, "No users selected", http.StatusBadRequest)
		return
	}
	if input.Style == "" {
		input.Style = "neutral"
	}

	patterns, err := dispatcher.ResolvePatterns(r.Context(), input.UserIDs)
	if err != nil {
		http.Error(w, "Pattern lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The suggestion is generated from the first user with pattern data; the
	// same text is offered for the whole selection.
	var sample *UserPattern
	for _, userID := range input.UserIDs {
		if p, ok := patterns[userID]; ok {
			sample = &p
			break
		}
	}
	if sample == nil {
		http.Error(w, "No pattern data available", http.StatusNotFound)
		return
	}

	times := make([]scheduledTime, 0, len(input.UserIDs))
	for _, userID := range input.UserIDs {
		name := "Unknown"
		if p, ok := patterns[userID]; ok {
			name = p.UserName
		}

		slot, err := detector.RecommendedSendTime(r.Context(), userID)
		if errors.Is(err, pattern.ErrNoPattern) {
			slot = pattern.NoPatternSentinel
		} else if err != nil {
			http.Error(w, "Send-time selection failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		times = append(times, scheduledTime{UserID: userID, UserName: name, Time: slot})
	}

	suggestion, err := suggester.SuggestMessage(r.Context(), *sample, input.Style)
	switch {
	case errors.Is(err, ErrSuggestionRateLimited):
		metrics.SuggestionRequests.WithLabelValues("rate_limited").Inc()
		http.Error(w, "Gemini API rate limit exceeded. Try again later.", http.StatusTooManyRequests)
		return
	case errors.Is(err, ErrSuggestionUnauthorized):
		metrics.SuggestionRequests.WithLabelValues("unauthorized").Inc()
		http.Error(w, "Invalid Gemini API key.", http.StatusUnauthorized)
		return
	case err != nil:
		metrics.SuggestionRequests.WithLabelValues("error").Inc()
		http.Error(w, "Suggestion failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.SuggestionRequests.WithLabelValues("ok").Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"suggestion":      suggestion,
		"scheduled_times": times,
	})
}

func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	var entries []NotificationLog
	if err := db.DB.Order("sent_at DESC").Limit(200).Find(&entries).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// nextOccurrence finds the next wall-clock time matching the Monday-first
// weekday and hour, always at least a little in the future.
func nextOccurrence(now time.Time, weekday, hour int) time.Time {
	nowWeekday := (int(now.Weekday()) + 6) % 7
	daysAhead := (weekday - nowWeekday + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).
		AddDate(0, 0, daysAhead)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
