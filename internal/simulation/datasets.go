package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/GeoMark/GM-Backend/internal/geofence"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

// Canned datasets for the demo frontend: "patterns" shows users with strong
// weekly habits, "random" shows noise. Fixed seeds keep the demo data stable
// across requests and restarts.

type dataset struct {
	Users    []SimUser        `json:"users"`
	Triggers []tracking.Event `json:"triggers"`
}

var datasetSeeds = map[string]int64{
	"patterns": 1,
	"random":   2,
}

// demoFences are the standalone zones the canned datasets visit; they do not
// depend on whatever geofences the operator has drawn.
func demoFences() []geofence.Geofence {
	square := func(lat, lng float64) string {
		const d = 0.001
		encoded, _ := geofence.EncodeCoordinates([]geofence.LatLng{
			{Lat: lat, Lng: lng},
			{Lat: lat + d, Lng: lng},
			{Lat: lat + d, Lng: lng + d},
			{Lat: lat, Lng: lng + d},
		})
		return encoded
	}
	return []geofence.Geofence{
		{ID: 1, BusinessType: "cafe", Name: "Demo Cafe", Coordinates: square(53.7960, -1.5440), Active: true},
		{ID: 2, BusinessType: "gym", Name: "Demo Gym", Coordinates: square(53.7985, -1.5430), Active: true},
	}
}

// BuildDataset produces one of the canned datasets, or an error for an
// unknown name.
func BuildDataset(name string) (dataset, error) {
	seed, ok := datasetSeeds[name]
	if !ok {
		return dataset{}, fmt.Errorf("unknown dataset %q", name)
	}

	fences := demoFences()
	rng := rand.New(rand.NewSource(seed))
	out := dataset{Users: []SimUser{}, Triggers: []tracking.Event{}}

	if name == "random" {
		// Uniformly random visits, no weekly structure.
		for userNum := 1; userNum <= 5; userNum++ {
			user := SimUser{
				ID:   fmt.Sprintf("User%d", userNum),
				Name: fmt.Sprintf("SimUser%d", userNum),
				Home: geofence.LatLng{
					Lat: demoCentre.Lat + (rng.Float64()-0.5)*0.1,
					Lng: demoCentre.Lng + (rng.Float64()-0.5)*0.1,
				},
			}
			for i := 0; i < 8; i++ {
				fence := fences[rng.Intn(len(fences))]
				ts := simulationEpoch.
					AddDate(0, 0, rng.Intn(28)).
					Add(time.Duration(9+rng.Intn(12)) * time.Hour).
					Add(time.Duration(rng.Intn(60)) * time.Minute)
				duration := 1.0
				out.Triggers = append(out.Triggers, tracking.Event{
					UserID:       user.ID,
					UserName:     user.Name,
					GeofenceID:   fence.ID,
					GeofenceName: fence.Name,
					EventType:    tracking.EventEntry,
					Timestamp:    ts,
					Duration:     &duration,
				})
			}
			out.Users = append(out.Users, user)
		}
		return out, nil
	}

	// "patterns": the routine generator with a fixed seed.
	g := NewGenerator(rng)
	for userNum := 1; userNum <= 5; userNum++ {
		user, triggers, err := g.GenerateUserBehavior(userNum, 4, fences)
		if err != nil {
			return dataset{}, err
		}
		out.Users = append(out.Users, user)
		out.Triggers = append(out.Triggers, triggers...)
	}
	return out, nil
}
