package pattern

import (
	"strconv"
	"time"

	"github.com/GeoMark/GM-Backend/internal/tracking"
	"github.com/cespare/xxhash/v2"
)

// hashModulus folds the 64-bit hash into a range that is exactly
// representable in float64. The identifier dimensions stay large relative to
// the time-of-week dimensions on purpose: clusters form per user and
// geofence first, time second.
const hashModulus = 100003

// hashID maps an identifier string to a stable numeric clustering feature.
// xxhash of the UTF-8 bytes is a pure function of the string, so assignments
// are reproducible across processes and runs.
func hashID(s string) float64 {
	return float64(xxhash.Sum64String(s) % hashModulus)
}

// isoWeekday returns the Monday-first weekday index 0-6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// featureVector maps an entry event to the 5-D clustering space:
// [user hash, geofence hash, weekday, hour, minute].
func featureVector(ev tracking.Event) []float64 {
	return []float64{
		hashID(ev.UserID),
		hashID(strconv.FormatUint(uint64(ev.GeofenceID), 10)),
		float64(isoWeekday(ev.Timestamp)),
		float64(ev.Timestamp.Hour()),
		float64(ev.Timestamp.Minute()),
	}
}

// sendTimeVector maps an entry event to the 2-D space used for send-time
// selection: [weekday, hour]. Geofence identity is deliberately absent; a
// user gets one send time across all their zones.
func sendTimeVector(ev tracking.Event) []float64 {
	return []float64{
		float64(isoWeekday(ev.Timestamp)),
		float64(ev.Timestamp.Hour()),
	}
}
