package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GeoMark/GM-Backend/internal/config"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

type stubStore struct {
	events []tracking.Event
	err    error
}

func (s stubStore) ListEntryEvents(ctx context.Context) ([]tracking.Event, error) {
	return s.events, s.err
}

func (s stubStore) ListEntryEventsForUser(ctx context.Context, userID string) ([]tracking.Event, error) {
	var out []tracking.Event
	for _, ev := range s.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, s.err
}

type recordedSend struct {
	channel, recipient, message string
}

type stubDeliverer struct {
	mu    sync.Mutex
	sends []recordedSend
	fail  map[string]bool // recipients that should error
}

func (d *stubDeliverer) Send(ctx context.Context, channel, recipient, subject, message string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sends = append(d.sends, recordedSend{channel, recipient, message})
	if d.fail[recipient] {
		return StatusFailed, errors.New("provider rejected message")
	}
	return StatusDelivered, nil
}

type memLogs struct {
	mu      sync.Mutex
	entries []NotificationLog
}

func (l *memLogs) Record(ctx context.Context, entry NotificationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func entryEvent(userID, userName, geofenceName string) tracking.Event {
	return tracking.Event{
		UserID:       userID,
		UserName:     userName,
		GeofenceID:   1,
		GeofenceName: geofenceName,
		EventType:    tracking.EventEntry,
	}
}

func testNotifyConf() config.NotifyConf {
	return config.NotifyConf{
		MinSendSpacingMs: 0,
		Subject:          "Exclusive Offer Just for You!",
		RecipientDomain:  "example.com",
	}
}

func TestResolvePatternsFirstPairingWins(t *testing.T) {
	store := stubStore{events: []tracking.Event{
		entryEvent("u1", "Alice", "Demo Cafe"),
		entryEvent("u1", "Alice", "Demo Gym"),
		entryEvent("u2", "Bob", "Demo Gym"),
	}}
	d := NewDispatcher(store, &stubDeliverer{}, &memLogs{}, testNotifyConf())

	patterns, err := d.ResolvePatterns(context.Background(), []string{"u1", "u2", "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if len(patterns) != 2 {
		t.Fatalf("resolved %d patterns, want 2", len(patterns))
	}
	if patterns["u1"].GeofenceName != "Demo Cafe" {
		t.Errorf("u1 geofence = %q, want first-seen Demo Cafe", patterns["u1"].GeofenceName)
	}
	if _, ok := patterns["ghost"]; ok {
		t.Error("user with no events resolved a pattern")
	}
}

func TestSendBatchOneMessagePerUserChannel(t *testing.T) {
	store := stubStore{events: []tracking.Event{
		entryEvent("u1", "Alice", "Demo Cafe"),
		entryEvent("u2", "Bob", "Demo Gym"),
	}}
	deliverer := &stubDeliverer{}
	logs := &memLogs{}
	d := NewDispatcher(store, deliverer, logs, testNotifyConf())

	results, err := d.SendBatch(context.Background(),
		[]string{"u1", "u2"}, []string{"email"}, "Hi {user_name}", "neutral")
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Message != "Hi Alice" || results[1].Message != "Hi Bob" {
		t.Errorf("unexpected messages: %q, %q", results[0].Message, results[1].Message)
	}
	if deliverer.sends[0].recipient != "alice@example.com" {
		t.Errorf("recipient = %q, want alice@example.com", deliverer.sends[0].recipient)
	}
	if len(logs.entries) != 2 {
		t.Errorf("recorded %d log entries, want 2", len(logs.entries))
	}
}

func TestSendBatchSkipsPatternlessUsers(t *testing.T) {
	store := stubStore{events: []tracking.Event{
		entryEvent("u1", "Alice", "Demo Cafe"),
	}}
	deliverer := &stubDeliverer{}
	d := NewDispatcher(store, deliverer, &memLogs{}, testNotifyConf())

	results, err := d.SendBatch(context.Background(),
		[]string{"u1", "unknown"}, []string{"email"}, "Hi {user_name}", "neutral")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want only the known user", len(results))
	}
	if len(deliverer.sends) != 1 {
		t.Errorf("delivered %d times, want 1", len(deliverer.sends))
	}
}

func TestSendBatchFailureDoesNotAbortBatch(t *testing.T) {
	store := stubStore{events: []tracking.Event{
		entryEvent("u1", "Alice", "Demo Cafe"),
		entryEvent("u2", "Bob", "Demo Gym"),
	}}
	deliverer := &stubDeliverer{fail: map[string]bool{"alice@example.com": true}}
	logs := &memLogs{}
	d := NewDispatcher(store, deliverer, logs, testNotifyConf())

	results, err := d.SendBatch(context.Background(),
		[]string{"u1", "u2"}, []string{"email"}, "Hi {user_name}", "neutral")
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want both attempts reported", len(results))
	}
	if results[0].Status != StatusFailed {
		t.Errorf("failed recipient status = %q, want %q", results[0].Status, StatusFailed)
	}
	if results[1].Status != StatusDelivered {
		t.Errorf("healthy recipient status = %q, want %q", results[1].Status, StatusDelivered)
	}
	if logs.entries[0].Status != StatusFailed {
		t.Errorf("log status = %q, want %q", logs.entries[0].Status, StatusFailed)
	}
}

func TestSendBatchStoreErrorIsFatal(t *testing.T) {
	store := stubStore{err: errors.New("db down")}
	d := NewDispatcher(store, &stubDeliverer{}, &memLogs{}, testNotifyConf())

	_, err := d.SendBatch(context.Background(),
		[]string{"u1"}, []string{"email"}, "Hi", "neutral")
	if err == nil {
		t.Fatal("expected error when the event store is unavailable")
	}
}

func TestSendToRecordsOutcome(t *testing.T) {
	deliverer := &stubDeliverer{}
	logs := &memLogs{}
	d := NewDispatcher(stubStore{}, deliverer, logs, testNotifyConf())

	p := UserPattern{UserID: "u1", UserName: "Alice", GeofenceName: "Demo Cafe"}
	result := d.SendTo(context.Background(), p, "email", "see you soon")

	if result.Status != StatusDelivered {
		t.Errorf("status = %q, want %q", result.Status, StatusDelivered)
	}
	if len(logs.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(logs.entries))
	}
	if logs.entries[0].Message != "see you soon" {
		t.Errorf("logged message = %q", logs.entries[0].Message)
	}
}
