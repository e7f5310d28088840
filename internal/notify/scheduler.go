package notify

import (
	"sync"
	"time"

	"github.com/GeoMark/GM-Backend/internal/metrics"
)

// pendingSend tracks one scheduled task. The generation ties a timer's
// callback back to the map entry it was installed under: a fired callback
// may only clean up its own entry, never a replacement installed for the
// same key while it was firing.
type pendingSend struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler holds delayed sends keyed by user ID. Scheduling a key that
// already has a pending send cancels the old one first, so the latest
// schedule for a user always wins. Tasks outlive the request that created
// them but not the process.
type Scheduler struct {
	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingSend
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]pendingSend)}
}

// Schedule registers task to run at the given time, replacing any pending
// task under the same key.
func (s *Scheduler) Schedule(key string, at time.Time, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[key]; ok {
		old.timer.Stop()
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	s.gen++
	gen := s.gen
	timer := time.AfterFunc(delay, func() {
		s.remove(key, gen)
		task()
	})
	s.pending[key] = pendingSend{timer: timer, gen: gen}
	metrics.ScheduledSendsPending.Set(float64(len(s.pending)))
}

// Cancel drops the pending task for key, reporting whether one existed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.pending, key)
	metrics.ScheduledSendsPending.Set(float64(len(s.pending)))
	return true
}

// Pending reports how many sends are waiting.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels everything; used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.pending {
		entry.timer.Stop()
		delete(s.pending, key)
	}
	metrics.ScheduledSendsPending.Set(0)
}

// remove cleans up after a fired timer. A Schedule for the same key may have
// replaced the entry between the timer firing and this callback running, so
// the entry is only deleted when it still belongs to the timer that fired.
func (s *Scheduler) remove(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.pending[key]; ok && entry.gen == gen {
		delete(s.pending, key)
		metrics.ScheduledSendsPending.Set(float64(len(s.pending)))
	}
}
