package provider

import (
	"log"
	"time"
)

// LogRequest logs an API request being made.
func LogRequest(provider, method, url string, params map[string]interface{}) {
	if len(params) > 0 {
		log.Printf("[%s] %s %s params=%v", provider, method, url, params)
	} else {
		log.Printf("[%s] %s %s", provider, method, url)
	}
}

// LogResponse logs an API response received.
func LogResponse(provider string, statusCode int, duration time.Duration) {
	log.Printf("[%s] response status=%d duration=%dms",
		provider, statusCode, duration.Milliseconds())
}

// LogError logs an error from an API operation.
func LogError(provider, operation string, err error) {
	log.Printf("[%s] %s error: %v", provider, operation, err)
}

// LogDelivery logs the outcome of one notification delivery attempt.
func LogDelivery(provider, channel, userName, status string) {
	log.Printf("[%s] %s to %s: %s", provider, channel, userName, status)
}
