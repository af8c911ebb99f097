// Package tracking keeps live rider position state and decides when a
// stationary rider gets warned or redirected.
package tracking

import (
	"sync"
	"time"

	"rider-fleet-backend/internal/geo"
)

// MoveThresholdMeters is the displacement a sample needs to count as movement.
// GPS jitter inside this radius keeps the rider stationary.
const MoveThresholdMeters = 20.0

// AlertKind identifies one independently cooled-down alert
type AlertKind int

const (
	AlertStationary AlertKind = iota
	AlertRedirect
	AlertPostDelivery
)

func (k AlertKind) String() string {
	switch k {
	case AlertStationary:
		return "STATIONARY"
	case AlertRedirect:
		return "REDIRECT"
	case AlertPostDelivery:
		return "POST_DELIVERY"
	}
	return "UNKNOWN"
}

// AlertTimes records when each alert kind last fired. Zero means never.
type AlertTimes struct {
	Stationary   time.Time `json:"stationary"`
	Redirect     time.Time `json:"redirect"`
	PostDelivery time.Time `json:"post_delivery"`
}

func (a *AlertTimes) field(kind AlertKind) *time.Time {
	switch kind {
	case AlertStationary:
		return &a.Stationary
	case AlertRedirect:
		return &a.Redirect
	default:
		return &a.PostDelivery
	}
}

// RiderState is the in-memory record for one tracked rider.
// Invariant: LastUpdateTime >= LastMoveTime.
type RiderState struct {
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	LastMoveTime   time.Time  `json:"last_move_time"`
	LastUpdateTime time.Time  `json:"last_update_time"`
	Alerts         AlertTimes `json:"alerts"`
}

// Tracker holds the last accepted position of every rider seen since startup.
// Entries survive disconnects so a reconnecting rider resumes where it was.
type Tracker struct {
	riders map[string]*RiderState // Key: rider_id
	mutex  sync.RWMutex
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		riders: make(map[string]*RiderState),
	}
}

// Update applies one sample and returns the resulting state. moved is true
// when the sample created the rider or displaced it past MoveThresholdMeters.
func (t *Tracker) Update(riderID string, lat, lon float64, now time.Time) (state RiderState, moved bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	prev, exists := t.riders[riderID]

	// First position for this rider
	if !exists {
		s := &RiderState{
			Lat:            lat,
			Lon:            lon,
			LastMoveTime:   now,
			LastUpdateTime: now,
		}
		t.riders[riderID] = s
		return *s, true
	}

	// Samples are stamped on receipt; never let the clock run backwards
	if now.Before(prev.LastUpdateTime) {
		now = prev.LastUpdateTime
	}

	if geo.DistanceMeters(prev.Lat, prev.Lon, lat, lon) > MoveThresholdMeters {
		prev.Lat = lat
		prev.Lon = lon
		prev.LastMoveTime = now
		moved = true
	}
	prev.LastUpdateTime = now

	return *prev, moved
}

// Get returns a copy of a rider's state
func (t *Tracker) Get(riderID string) (RiderState, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	s, ok := t.riders[riderID]
	if !ok {
		return RiderState{}, false
	}
	return *s, true
}

// TryFire atomically checks that kind's cooldown has elapsed for the rider
// and, if so, stamps it with now. Unknown riders never fire.
func (t *Tracker) TryFire(riderID string, kind AlertKind, now time.Time, cooldown time.Duration) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	s, ok := t.riders[riderID]
	if !ok {
		return false
	}
	last := s.Alerts.field(kind)
	if now.Sub(*last) <= cooldown {
		return false
	}
	*last = now
	return true
}

// CooldownElapsed reports whether kind could fire at now without stamping it
func (t *Tracker) CooldownElapsed(riderID string, kind AlertKind, now time.Time, cooldown time.Duration) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	s, ok := t.riders[riderID]
	if !ok {
		return false
	}
	return now.Sub(*s.Alerts.field(kind)) > cooldown
}

// Positions returns a consistent copy of every tracked rider's position
func (t *Tracker) Positions() []geo.Point {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make([]geo.Point, 0, len(t.riders))
	for _, s := range t.riders {
		out = append(out, geo.Point{Lat: s.Lat, Lon: s.Lon})
	}
	return out
}

// Snapshot returns a copy of all rider states keyed by rider id
func (t *Tracker) Snapshot() map[string]RiderState {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make(map[string]RiderState, len(t.riders))
	for id, s := range t.riders {
		out[id] = *s
	}
	return out
}

// Count returns the number of tracked riders
func (t *Tracker) Count() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.riders)
}
