package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GeoMark/GM-Backend/internal/config"
	"github.com/GeoMark/GM-Backend/internal/db"
	"github.com/GeoMark/GM-Backend/internal/metrics"
	"github.com/GeoMark/GM-Backend/internal/provider"
	"github.com/GeoMark/GM-Backend/internal/tracking"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// LogStore persists delivery attempts for the history endpoint.
type LogStore interface {
	Record(ctx context.Context, entry NotificationLog) error
}

// GormLogStore writes NotificationLog rows through the shared connection.
type GormLogStore struct{}

var _ LogStore = GormLogStore{}

func (GormLogStore) Record(ctx context.Context, entry NotificationLog) error {
	if err := db.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}
	return nil
}

// SendResult is the per-(user, channel) outcome reported to the caller.
type SendResult struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// Dispatcher fans one personalized message per user out to the requested
// channels, pacing outbound calls to stay under the provider's throughput
// ceiling.
type Dispatcher struct {
	store     tracking.Store
	deliverer Deliverer
	logs      LogStore
	limiter   *rate.Limiter
	conf      config.NotifyConf
}

func NewDispatcher(store tracking.Store, deliverer Deliverer, logs LogStore, conf config.NotifyConf) *Dispatcher {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if conf.MinSendSpacingMs > 0 {
		spacing := time.Duration(conf.MinSendSpacingMs) * time.Millisecond
		limiter = rate.NewLimiter(rate.Every(spacing), 1)
	}
	return &Dispatcher{
		store:     store,
		deliverer: deliverer,
		logs:      logs,
		limiter:   limiter,
		conf:      conf,
	}
}

// ResolvePatterns maps each requested user to their first recorded
// (user, geofence) pairing, which is all personalization needs. Users with no
// entry events are absent from the result.
func (d *Dispatcher) ResolvePatterns(ctx context.Context, userIDs []string) (map[string]UserPattern, error) {
	events, err := d.store.ListEntryEvents(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	patterns := make(map[string]UserPattern)
	for _, ev := range events {
		if !wanted[ev.UserID] {
			continue
		}
		if _, ok := patterns[ev.UserID]; ok {
			continue
		}
		patterns[ev.UserID] = UserPattern{
			UserID:       ev.UserID,
			UserName:     ev.UserName,
			GeofenceName: ev.GeofenceName,
		}
	}
	return patterns, nil
}

// SendBatch personalizes and delivers one message per resolvable user across
// every requested channel. A failed recipient is recorded and skipped, never
// fatal to the batch. Users with no pattern are silently left out, matching
// the "never message someone we know nothing about" rule.
func (d *Dispatcher) SendBatch(ctx context.Context, userIDs, channels []string, template, style string) ([]SendResult, error) {
	patterns, err := d.ResolvePatterns(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	results := make([]SendResult, 0, len(userIDs)*len(channels))
	for _, userID := range userIDs {
		p, ok := patterns[userID]
		if !ok {
			continue
		}
		message := Personalize(p, template, style)

		for _, channel := range channels {
			if err := d.limiter.Wait(ctx); err != nil {
				return results, fmt.Errorf("send pacing interrupted: %w", err)
			}

			status, sendErr := d.deliverer.Send(ctx, channel, d.recipientFor(p), d.conf.Subject, message)
			if sendErr != nil {
				provider.LogError("notify", "send", sendErr)
				status = StatusFailed
			}
			provider.LogDelivery("notify", channel, p.UserName, status)
			metrics.NotificationsSent.WithLabelValues(channel, status).Inc()

			result := SendResult{
				UserID:    userID,
				UserName:  p.UserName,
				Channel:   channel,
				Message:   message,
				Timestamp: time.Now(),
				Status:    status,
			}
			results = append(results, result)

			entry := NotificationLog{
				ID:                uuid.New(),
				UserID:            userID,
				UserName:          p.UserName,
				Channel:           channel,
				RequestedChannels: channels,
				Message:           message,
				Status:            status,
				SentAt:            result.Timestamp,
			}
			if err := d.logs.Record(ctx, entry); err != nil {
				provider.LogError("notify", "record", err)
			}
		}
	}
	return results, nil
}

// SendTo delivers one already-personalized message to a single user, used by
// the scheduler when a delayed send fires.
func (d *Dispatcher) SendTo(ctx context.Context, p UserPattern, channel, message string) SendResult {
	status, err := d.deliverer.Send(ctx, channel, d.recipientFor(p), d.conf.Subject, message)
	if err != nil {
		provider.LogError("notify", "scheduled send", err)
		status = StatusFailed
	}
	provider.LogDelivery("notify", channel, p.UserName, status)
	metrics.NotificationsSent.WithLabelValues(channel, status).Inc()

	result := SendResult{
		UserID:    p.UserID,
		UserName:  p.UserName,
		Channel:   channel,
		Message:   message,
		Timestamp: time.Now(),
		Status:    status,
	}
	entry := NotificationLog{
		ID:       uuid.New(),
		UserID:   p.UserID,
		UserName: p.UserName,
		Channel:  channel,
		Message:  message,
		Status:   status,
		SentAt:   result.Timestamp,
	}
	if err := d.logs.Record(ctx, entry); err != nil {
		provider.LogError("notify", "record", err)
	}
	return result
}

// recipientFor builds the demo placeholder address; there is no real user
// directory in this system.
func (d *Dispatcher) recipientFor(p UserPattern) string {
	return strings.ToLower(p.UserName) + "@" + d.conf.RecipientDomain
}
