package tracking

import (
	"context"
	"fmt"

	"github.com/GeoMark/GM-Backend/internal/db"
)

// Store is the read surface the pattern engine and the notifier depend on.
// Both only ever consume entry events; writes stay inside this package.
type Store interface {
	ListEntryEvents(ctx context.Context) ([]Event, error)
	ListEntryEventsForUser(ctx context.Context, userID string) ([]Event, error)
}

// GormStore is the database-backed Store.
type GormStore struct{}

var _ Store = GormStore{}

func (GormStore) ListEntryEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	err := db.DB.WithContext(ctx).
		Where("event_type = ?", EventEntry).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("listing entry events: %w", err)
	}
	return events, nil
}

func (GormStore) ListEntryEventsForUser(ctx context.Context, userID string) ([]Event, error) {
	var events []Event
	err := db.DB.WithContext(ctx).
		Where("event_type = ? AND user_id = ?", EventEntry, userID).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("listing entry events for %s: %w", userID, err)
	}
	return events, nil
}

// CreateBatch inserts generated simulation events in one statement.
func CreateBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := db.DB.WithContext(ctx).CreateInBatches(events, 500).Error; err != nil {
		return fmt.Errorf("inserting %d events: %w", len(events), err)
	}
	return nil
}

// DeleteAll wipes the tracking table. Used when a new simulation run starts.
func DeleteAll(ctx context.Context) error {
	if err := db.DB.WithContext(ctx).Exec("DELETE FROM geomark.tracking_events").Error; err != nil {
		return fmt.Errorf("clearing tracking events: %w", err)
	}
	return nil
}
