package pattern

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/GeoMark/GM-Backend/internal/config"
	"github.com/GeoMark/GM-Backend/internal/metrics"
	"github.com/GeoMark/GM-Backend/internal/tracking"
)

// ErrNoPattern is returned when a user has too few visits to derive a send
// time from.
var ErrNoPattern = errors.New("no pattern detected")

// NoPatternSentinel is the wire value callers show when ErrNoPattern occurs.
const NoPatternSentinel = "No pattern detected"

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
var dayAbbrevs = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// VisitPattern is one recurring visit habit: a user returning to a geofence
// around the same time of week.
type VisitPattern struct {
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	GeofenceID   uint    `json:"geofence_id"`
	GeofenceName string  `json:"geofence_name"`
	DayOfWeek    string  `json:"day_of_week"`
	Hour         int     `json:"hour"`
	Minute       int     `json:"minute"`
	VisitCount   int     `json:"visit_count"`
	Confidence   float64 `json:"confidence"`
}

// EligibleUser is a user with at least one pattern above the confidence
// threshold.
type EligibleUser struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// Detector runs the clustering pipeline over the event store. All three
// operations recompute from the full current event set; nothing is cached.
type Detector struct {
	store tracking.Store
	conf  config.EngineConf

	// Clustering is CPU-bound, so a small slot gate keeps concurrent
	// requests from stacking full-table computations.
	gate chan struct{}
}

func NewDetector(store tracking.Store, conf config.EngineConf) *Detector {
	return &Detector{
		store: store,
		conf:  conf,
		gate:  make(chan struct{}, conf.ComputeWorkers),
	}
}

// groupKey identifies one candidate pattern: a user's events at one geofence
// that landed in the same cluster.
type groupKey struct {
	userID     string
	geofenceID uint
	label      int
}

type group struct {
	userName     string
	geofenceName string
	vectors      [][]float64
}

// clusterGroups runs steps 1-6 of the pipeline: vectorize, cluster, group.
// Fewer than two events yields an empty map and no error; that is the cold
// start case, not a failure.
func (d *Detector) clusterGroups(events []tracking.Event) (map[groupKey]*group, error) {
	if len(events) < 2 {
		return map[groupKey]*group{}, nil
	}

	vectors := make([][]float64, len(events))
	for i, ev := range events {
		vectors[i] = featureVector(ev)
	}

	k := len(events) / 2
	if k > d.conf.MaxClusters {
		k = d.conf.MaxClusters
	}
	if k < 1 {
		k = 1
	}

	start := time.Now()
	labels, _, err := kmeans(vectors, k)
	metrics.ClusteringDuration.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.PatternComputationErrors.Inc()
		return nil, fmt.Errorf("clustering %d events: %w", len(events), err)
	}
	metrics.PatternComputations.Inc()
	metrics.EventsAnalyzed.Set(float64(len(events)))

	groups := make(map[groupKey]*group)
	for i, ev := range events {
		key := groupKey{userID: ev.UserID, geofenceID: ev.GeofenceID, label: labels[i]}
		g, ok := groups[key]
		if !ok {
			g = &group{userName: ev.UserName, geofenceName: ev.GeofenceName}
			groups[key] = g
		}
		g.vectors = append(g.vectors, vectors[i])
	}
	return groups, nil
}

// confidence scores a group by mean distance to its centroid. This is the
// inherited heuristic 100 - 2*avgDistance clamped to [0,100]; it is not a
// calibrated probability, and the unnormalized identifier dimensions mean
// scores are only comparable within one (user, geofence) pair.
func confidence(vectors [][]float64) (centroid []float64, score float64) {
	dims := len(vectors[0])
	centroid = make([]float64, dims)
	for _, v := range vectors {
		for d := range v {
			centroid[d] += v[d]
		}
	}
	for d := range centroid {
		centroid[d] /= float64(len(vectors))
	}

	var total float64
	for _, v := range vectors {
		total += euclidean(v, centroid)
	}
	avg := total / float64(len(vectors))

	score = 100 - 2*avg
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return centroid, math.Round(score*100) / 100
}

// DetectPatterns clusters every entry event in the store and summarizes each
// group with at least two visits. Output order is stable: sorted by user,
// geofence, cluster label.
func (d *Detector) DetectPatterns(ctx context.Context) ([]VisitPattern, error) {
	if err := d.acquire(ctx); err != nil {
		return nil, err
	}
	defer d.release()

	events, err := d.store.ListEntryEvents(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := d.clusterGroups(events)
	if err != nil {
		return nil, err
	}

	keys := sortedKeys(groups)
	patterns := make([]VisitPattern, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		if len(g.vectors) < 2 {
			continue
		}
		centroid, score := confidence(g.vectors)

		patterns = append(patterns, VisitPattern{
			UserID:       key.userID,
			UserName:     g.userName,
			GeofenceID:   key.geofenceID,
			GeofenceName: g.geofenceName,
			DayOfWeek:    dayNames[clampInt(roundInt(centroid[2]), 0, 6)],
			Hour:         clampInt(roundInt(centroid[3]), 0, 23),
			Minute:       clampInt(roundInt(centroid[4]), 0, 59),
			VisitCount:   len(g.vectors),
			Confidence:   score,
		})
	}
	return patterns, nil
}

// EligibleUsers reruns the clustering pipeline and returns each distinct user
// with any pattern at or above threshold. Empty input gives an empty result,
// never an error.
func (d *Detector) EligibleUsers(ctx context.Context, threshold float64) ([]EligibleUser, error) {
	if err := d.acquire(ctx); err != nil {
		return nil, err
	}
	defer d.release()

	events, err := d.store.ListEntryEvents(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := d.clusterGroups(events)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string) // userID -> userName
	for key, g := range groups {
		if len(g.vectors) < 2 {
			continue
		}
		if _, ok := seen[key.userID]; ok {
			continue
		}
		if _, score := confidence(g.vectors); score >= threshold {
			seen[key.userID] = g.userName
		}
	}

	users := make([]EligibleUser, 0, len(seen))
	for id, name := range seen {
		users = append(users, EligibleUser{UserID: id, UserName: name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

// RecommendedSendSlot picks the single (weekday, hour) centroid of a user's
// entry events across all geofences. Users with fewer than two visits get
// ErrNoPattern.
func (d *Detector) RecommendedSendSlot(ctx context.Context, userID string) (weekday, hour int, err error) {
	if err := d.acquire(ctx); err != nil {
		return 0, 0, err
	}
	defer d.release()

	events, err := d.store.ListEntryEventsForUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if len(events) < 2 {
		return 0, 0, ErrNoPattern
	}

	vectors := make([][]float64, len(events))
	for i, ev := range events {
		vectors[i] = sendTimeVector(ev)
	}

	_, centroids, err := kmeans(vectors, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("send-time clustering for %s: %w", userID, err)
	}

	weekday = clampInt(roundInt(centroids[0][0]), 0, 6)
	hour = clampInt(roundInt(centroids[0][1]), 0, 23)
	return weekday, hour, nil
}

// RecommendedSendTime formats the send slot as "Mon, 15:00".
func (d *Detector) RecommendedSendTime(ctx context.Context, userID string) (string, error) {
	weekday, hour, err := d.RecommendedSendSlot(ctx, userID)
	if err != nil {
		return "", err
	}
	return FormatSendSlot(weekday, hour), nil
}

// FormatSendSlot renders a (weekday, hour) slot as "Mon, 15:00".
func FormatSendSlot(weekday, hour int) string {
	return fmt.Sprintf("%s, %02d:00", dayAbbrevs[clampInt(weekday, 0, 6)], clampInt(hour, 0, 23))
}

func (d *Detector) acquire(ctx context.Context) error {
	timeout := time.Duration(d.conf.ComputeTimeoutMs) * time.Millisecond
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case d.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pattern engine busy: %w", ctx.Err())
	}
}

func (d *Detector) release() {
	<-d.gate
}

func sortedKeys(groups map[groupKey]*group) []groupKey {
	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.userID != b.userID {
			return a.userID < b.userID
		}
		if a.geofenceID != b.geofenceID {
			return a.geofenceID < b.geofenceID
		}
		return a.label < b.label
	})
	return keys
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
