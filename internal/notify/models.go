package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Delivery statuses recorded per (user, channel) attempt.
const (
	StatusDelivered = "Delivered"
	StatusFailed    = "Failed"
	StatusPending   = "Pending"
)

// NotificationLog is the audit row for one delivery attempt. RequestedChannels
// snapshots the full channel list of the batch the attempt belonged to.
type NotificationLog struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string         `gorm:"index;not null" json:"user_id"`
	UserName          string         `json:"user_name"`
	Channel           string         `gorm:"not null" json:"channel"`
	RequestedChannels pq.StringArray `gorm:"type:text[]" json:"requested_channels"`
	Message           string         `json:"message"`
	Status            string         `gorm:"index;not null" json:"status"`
	SentAt            time.Time      `gorm:"not null" json:"sent_at"`
}

func (NotificationLog) TableName() string {
	return "geomark.notification_logs"
}
