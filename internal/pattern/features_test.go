package pattern

import (
	"testing"
	"time"

	"github.com/GeoMark/GM-Backend/internal/tracking"
)

// TestHashID_Stable verifies that the identifier hash is a pure function of
// the string and stays inside the representable range.
func TestHashID_Stable(t *testing.T) {
	a := hashID("User1")
	b := hashID("User1")
	if a != b {
		t.Errorf("hash not stable: %v vs %v", a, b)
	}
	if a < 0 || a >= hashModulus {
		t.Errorf("hash %v outside [0,%d)", a, hashModulus)
	}
	if hashID("User1") == hashID("User2") {
		t.Error("distinct users should not collide in the demo fixture")
	}
}

// TestIsoWeekday verifies Monday-first indexing on known dates.
func TestIsoWeekday(t *testing.T) {
	monday := time.Date(2025, 3, 31, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 4, 6, 10, 0, 0, 0, time.UTC)

	if got := isoWeekday(monday); got != 0 {
		t.Errorf("2025-03-31 is a Monday, expected index 0, got %d", got)
	}
	if got := isoWeekday(sunday); got != 6 {
		t.Errorf("2025-04-06 is a Sunday, expected index 6, got %d", got)
	}
}

// TestFeatureVector_Shape verifies dimension order and time extraction.
func TestFeatureVector_Shape(t *testing.T) {
	ev := tracking.Event{
		UserID:     "User1",
		GeofenceID: 7,
		Timestamp:  time.Date(2025, 4, 2, 14, 35, 12, 0, time.UTC), // a Wednesday
	}

	v := featureVector(ev)
	if len(v) != 5 {
		t.Fatalf("expected 5 dims, got %d", len(v))
	}
	if v[2] != 2 {
		t.Errorf("expected weekday 2 (Wednesday), got %v", v[2])
	}
	if v[3] != 14 || v[4] != 35 {
		t.Errorf("expected hour 14 minute 35, got %v %v", v[3], v[4])
	}
}

// TestSendTimeVector_IgnoresGeofence verifies that events at different
// geofences map to the same 2-D vector when their times match.
func TestSendTimeVector_IgnoresGeofence(t *testing.T) {
	ts := time.Date(2025, 4, 4, 9, 15, 0, 0, time.UTC)
	a := sendTimeVector(tracking.Event{UserID: "u", GeofenceID: 1, Timestamp: ts})
	b := sendTimeVector(tracking.Event{UserID: "u", GeofenceID: 2, Timestamp: ts})

	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("send-time vectors should ignore geofence: %v vs %v", a, b)
	}
}
