package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/GeoMark/GM-Backend/internal/geofence"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

// simulationEpoch is the Monday every generated week is anchored to.
var simulationEpoch = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

// demoCentre is the Leeds city centre point homes are scattered around.
var demoCentre = geofence.LatLng{Lat: 53.7996, Lng: -1.5492}

// Movement is one leg of a simulated user's day, kept for map playback.
type Movement struct {
	From geofence.LatLng `json:"from"`
	To   geofence.LatLng `json:"to"`
	Time time.Time       `json:"time"`
}

// SimUser is one synthetic visitor: a home location and their movement log.
type SimUser struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Home      geofence.LatLng `json:"home"`
	Movements []Movement      `json:"movements"`
}

// routine is a weekly habit: one geofence visited on one weekday around a
// base hour.
type routine struct {
	geofenceID   uint
	geofenceName string
	destination  geofence.LatLng
	day          int
	baseHour     float64
	frequency    string // "every", "everyOther", "once"
}

// Generator produces synthetic visitors. The rand source is injected so
// tests can fix it.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// GenerateUserBehavior builds one user's weekly movements and the geofence
// entry events their routines trigger. Mirrors the dashboard demo model:
// simulated work commutes, one or two weekly habits with +-15 minute jitter,
// visits confined to 09:00-20:00, at most two per day.
func (g *Generator) GenerateUserBehavior(userNum, numWeeks int, fences []geofence.Geofence) (SimUser, []tracking.Event, error) {
	user := SimUser{
		ID:   fmt.Sprintf("User%d", userNum),
		Name: fmt.Sprintf("SimUser%d", userNum),
		Home: geofence.LatLng{
			Lat: demoCentre.Lat + g.uniform(-0.05, 0.05),
			Lng: demoCentre.Lng + g.uniform(-0.05, 0.05),
		},
	}

	routines, err := g.pickRoutines(fences)
	if err != nil {
		return SimUser{}, nil, err
	}

	var triggers []tracking.Event
	for week := 0; week < numWeeks; week++ {
		weekStart := simulationEpoch.AddDate(0, 0, 7*week)
		for day := 0; day < 7; day++ {
			dayStart := weekStart.AddDate(0, 0, day)

			// Daily commute, home -> work at 08:00 and back at 16:00.
			work := geofence.LatLng{
				Lat: demoCentre.Lat + g.uniform(-0.02, 0.02),
				Lng: demoCentre.Lng + g.uniform(-0.02, 0.02),
			}
			user.Movements = append(user.Movements,
				Movement{From: user.Home, To: work, Time: dayStart.Add(8 * time.Hour)},
				Movement{From: work, To: user.Home, Time: dayStart.Add(16 * time.Hour)},
			)

			occupied := make(map[int]bool)
			dailyVisits := 0
			const maxDailyVisits = 2

			for _, rt := range routines {
				if rt.day != day || dailyVisits >= maxDailyVisits {
					continue
				}
				due := rt.frequency == "every" ||
					(rt.frequency == "everyOther" && week%2 == 0) ||
					(rt.frequency == "once" && week == 0)
				if !due {
					continue
				}

				// Jitter the visit around the routine's base hour.
				variationMinutes := g.uniform(-15, 15)
				visitHour := rt.baseHour + variationMinutes/60
				visitHourInt := int(visitHour + 0.5)
				visitMinutes := int((visitHour - float64(visitHourInt)) * 60)
				visitSeconds := g.rng.Intn(60)

				totalMinutes := visitHourInt*60 + visitMinutes
				if occupied[totalMinutes] || visitHourInt < 9 || visitHourInt > 20 {
					continue
				}
				occupied[totalMinutes] = true
				occupied[totalMinutes+60] = true
				dailyVisits++

				visitTime := dayStart.
					Add(time.Duration(visitHourInt) * time.Hour).
					Add(time.Duration(visitMinutes) * time.Minute).
					Add(time.Duration(visitSeconds) * time.Second)

				duration := 1.0
				simulatedHour := visitHourInt + day*24 + week*168
				triggers = append(triggers, tracking.Event{
					UserID:        user.ID,
					UserName:      user.Name,
					GeofenceID:    rt.geofenceID,
					GeofenceName:  rt.geofenceName,
					EventType:     tracking.EventEntry,
					Timestamp:     visitTime,
					Duration:      &duration,
					SimulatedHour: &simulatedHour,
				})

				user.Movements = append(user.Movements,
					Movement{From: user.Home, To: rt.destination, Time: visitTime},
					Movement{From: rt.destination, To: user.Home, Time: visitTime.Add(time.Hour)},
				)
			}
		}
	}

	return user, triggers, nil
}

// pickRoutines assigns the user one or two weekly habits on distinct days.
func (g *Generator) pickRoutines(fences []geofence.Geofence) ([]routine, error) {
	availableDays := []int{0, 1, 2, 3, 4, 5, 6}
	count := 1 + g.rng.Intn(2)

	var routines []routine
	for i := 0; i < count && len(availableDays) > 0; i++ {
		dayIdx := g.rng.Intn(len(availableDays))
		day := availableDays[dayIdx]
		availableDays = append(availableDays[:dayIdx], availableDays[dayIdx+1:]...)

		fence := fences[g.rng.Intn(len(fences))]
		points, err := geofence.DecodeCoordinates(fence.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("geofence %d has corrupt coordinates: %w", fence.ID, err)
		}

		routines = append(routines, routine{
			geofenceID:   fence.ID,
			geofenceName: fence.Name,
			destination:  points[0],
			day:          day,
			baseHour:     g.uniform(9, 19),
			frequency:    []string{"every", "everyOther", "once"}[g.rng.Intn(3)],
		})
	}
	return routines, nil
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
