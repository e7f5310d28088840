package simulation

import (
	"math/rand"
	"testing"

	"github.com/GeoMark/GM-Backend/internal/geofence"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

func testFences(t *testing.T) []geofence.Geofence {
	t.Helper()
	encoded, err := geofence.EncodeCoordinates([]geofence.LatLng{
		{Lat: 53.796, Lng: -1.544},
		{Lat: 53.797, Lng: -1.544},
		{Lat: 53.797, Lng: -1.543},
	})
	if err != nil {
		t.Fatal(err)
	}
	return []geofence.Geofence{
		{ID: 1, BusinessType: "cafe", Name: "Test Cafe", Coordinates: encoded, Active: true},
	}
}

// TestGenerateUserBehavior_TriggerShape verifies that every generated trigger
// is a well-formed entry event inside the legal visit window.
func TestGenerateUserBehavior_TriggerShape(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(7)))

	user, triggers, err := g.GenerateUserBehavior(1, 8, testFences(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "User1" || user.Name != "SimUser1" {
		t.Errorf("unexpected user identity: %+v", user)
	}

	for _, tr := range triggers {
		if tr.EventType != tracking.EventEntry {
			t.Errorf("expected entry event, got %s", tr.EventType)
		}
		if tr.UserID != "User1" {
			t.Errorf("trigger for wrong user: %s", tr.UserID)
		}
		if tr.GeofenceID != 1 || tr.GeofenceName != "Test Cafe" {
			t.Errorf("trigger for wrong geofence: %+v", tr)
		}
		hour := tr.Timestamp.Hour()
		if hour < 8 || hour > 21 {
			t.Errorf("visit at %v outside the plausible window", tr.Timestamp)
		}
		if tr.SimulatedHour == nil {
			t.Error("simulated_hour missing on generated trigger")
		}
	}
}

// TestGenerateUserBehavior_Deterministic verifies that a fixed seed fixes the
// output.
func TestGenerateUserBehavior_Deterministic(t *testing.T) {
	fences := testFences(t)

	g1 := NewGenerator(rand.New(rand.NewSource(7)))
	_, first, err := g1.GenerateUserBehavior(1, 4, fences)
	if err != nil {
		t.Fatal(err)
	}

	g2 := NewGenerator(rand.New(rand.NewSource(7)))
	_, second, err := g2.GenerateUserBehavior(1, 4, fences)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("trigger counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Timestamp.Equal(second[i].Timestamp) {
			t.Errorf("trigger %d timestamps differ: %v vs %v", i, first[i].Timestamp, second[i].Timestamp)
		}
	}
}

// TestGenerateUserBehavior_MaxTwoVisitsPerDay verifies the daily visit cap.
func TestGenerateUserBehavior_MaxTwoVisitsPerDay(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(3)))

	_, triggers, err := g.GenerateUserBehavior(1, 12, testFences(t))
	if err != nil {
		t.Fatal(err)
	}

	perDay := make(map[string]int)
	for _, tr := range triggers {
		perDay[tr.Timestamp.Format("2006-01-02")]++
	}
	for day, n := range perDay {
		if n > 2 {
			t.Errorf("%s has %d visits, cap is 2", day, n)
		}
	}
}

// TestBuildDataset verifies both canned datasets exist and an unknown name
// errors.
func TestBuildDataset(t *testing.T) {
	for _, name := range []string{"patterns", "random"} {
		data, err := BuildDataset(name)
		if err != nil {
			t.Errorf("dataset %q failed: %v", name, err)
			continue
		}
		if len(data.Users) == 0 {
			t.Errorf("dataset %q has no users", name)
		}
		if len(data.Triggers) == 0 {
			t.Errorf("dataset %q has no triggers", name)
		}
	}

	if _, err := BuildDataset("nope"); err == nil {
		t.Error("expected error for unknown dataset")
	}
}

// TestBuildDataset_Stable verifies the canned datasets are identical across
// calls, like the static files they replace.
func TestBuildDataset_Stable(t *testing.T) {
	first, err := BuildDataset("patterns")
	if err != nil {
		t.Fatal(err)
	}
	second, err := BuildDataset("patterns")
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Triggers) != len(second.Triggers) {
		t.Fatalf("trigger counts differ: %d vs %d", len(first.Triggers), len(second.Triggers))
	}
	for i := range first.Triggers {
		if !first.Triggers[i].Timestamp.Equal(second.Triggers[i].Timestamp) {
			t.Errorf("trigger %d differs between builds", i)
		}
	}
}
