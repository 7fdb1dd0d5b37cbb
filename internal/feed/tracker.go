package feed

import (
	"sync"
	"time"
)

// Tracker remembers the most recent successfully fetched price and when it
// arrived. It feeds the status surface only; feed loops keep their own
// connection-local fallback value and never read the tracker.
type Tracker struct {
	mu        sync.RWMutex
	price     float64
	updatedAt time.Time
	set       bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Record stores a successful fetch result.
func (t *Tracker) Record(price float64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.price = price
	t.updatedAt = at
	t.set = true
}

// Snapshot returns the last recorded price and timestamp. ok is false until
// the first successful fetch.
func (t *Tracker) Snapshot() (price float64, updatedAt time.Time, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.price, t.updatedAt, t.set
}
