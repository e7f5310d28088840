package geofence

import (
	"reflect"
	"testing"
)

// TestCoordinatesRoundTrip verifies that a polygon's vertex sequence survives
// encode → decode with order and values intact.
func TestCoordinatesRoundTrip(t *testing.T) {
	points := []LatLng{
		{Lat: 53.7996, Lng: -1.5492},
		{Lat: 53.8001, Lng: -1.5488},
		{Lat: 53.7990, Lng: -1.5475},
		{Lat: 53.7985, Lng: -1.5500},
	}

	encoded, err := EncodeCoordinates(points)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeCoordinates(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !reflect.DeepEqual(points, decoded) {
		t.Errorf("round trip changed coordinates:\n in: %v\nout: %v", points, decoded)
	}
}

// TestEncodeCoordinates_Empty verifies that an empty vertex list is rejected.
func TestEncodeCoordinates_Empty(t *testing.T) {
	if _, err := EncodeCoordinates(nil); err == nil {
		t.Error("expected error for empty coordinate list, got nil")
	}
}

// TestDecodeCoordinates_Garbage verifies that corrupt stored data surfaces as
// an error rather than an empty polygon.
func TestDecodeCoordinates_Garbage(t *testing.T) {
	if _, err := DecodeCoordinates("{not json"); err == nil {
		t.Error("expected error for corrupt data, got nil")
	}
}

// TestCompetitorsFor_UnknownCategory verifies the lookup returns an empty
// slice, not nil, so it serializes as [] in JSON.
func TestCompetitorsFor_UnknownCategory(t *testing.T) {
	got := CompetitorsFor("florist")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no locations, got %d", len(got))
	}
}
