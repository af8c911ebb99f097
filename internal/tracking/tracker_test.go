package tracking

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestTrackerFirstSampleCreatesState(t *testing.T) {
	tr := NewTracker()

	state, moved := tr.Update("r1", 52.52, 13.405, t0)
	if !moved {
		t.Fatal("first sample should count as movement")
	}
	if !state.LastMoveTime.Equal(t0) || !state.LastUpdateTime.Equal(t0) {
		t.Fatalf("times = %v/%v, want both %v", state.LastMoveTime, state.LastUpdateTime, t0)
	}
	if !state.Alerts.Stationary.IsZero() || !state.Alerts.Redirect.IsZero() || !state.Alerts.PostDelivery.IsZero() {
		t.Fatalf("alerts should start unset, got %+v", state.Alerts)
	}
}

func TestTrackerJitterIsNotMovement(t *testing.T) {
	tr := NewTracker()
	tr.Update("r1", 52.52, 13.405, t0)

	// ~11 m north
	later := t0.Add(time.Minute)
	state, moved := tr.Update("r1", 52.5201, 13.405, later)
	if moved {
		t.Fatal("11 m displacement should not count as movement")
	}
	if state.Lat != 52.52 {
		t.Errorf("Lat = %v, stored coordinate should not change on jitter", state.Lat)
	}
	if !state.LastMoveTime.Equal(t0) {
		t.Errorf("LastMoveTime = %v, want %v", state.LastMoveTime, t0)
	}
	if !state.LastUpdateTime.Equal(later) {
		t.Errorf("LastUpdateTime = %v, want %v", state.LastUpdateTime, later)
	}
}

func TestTrackerMovementUpdatesPosition(t *testing.T) {
	tr := NewTracker()
	tr.Update("r1", 52.52, 13.405, t0)

	// ~33 m north
	later := t0.Add(time.Minute)
	state, moved := tr.Update("r1", 52.5203, 13.405, later)
	if !moved {
		t.Fatal("33 m displacement should count as movement")
	}
	if state.Lat != 52.5203 || !state.LastMoveTime.Equal(later) {
		t.Errorf("state = %+v, want lat 52.5203 moved at %v", state, later)
	}
}

func TestTrackerClampsOutOfOrderTime(t *testing.T) {
	tr := NewTracker()
	tr.Update("r1", 52.52, 13.405, t0)

	state, _ := tr.Update("r1", 52.53, 13.405, t0.Add(-time.Minute))
	if !state.LastUpdateTime.Equal(t0) {
		t.Errorf("LastUpdateTime = %v, want clamped to %v", state.LastUpdateTime, t0)
	}
	if state.LastUpdateTime.Before(state.LastMoveTime) {
		t.Errorf("LastUpdateTime %v before LastMoveTime %v", state.LastUpdateTime, state.LastMoveTime)
	}
}

func TestTryFireCooldown(t *testing.T) {
	tr := NewTracker()

	if tr.TryFire("ghost", AlertStationary, t0, StationaryCooldown) {
		t.Fatal("unknown rider should never fire")
	}

	tr.Update("r1", 52.52, 13.405, t0)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"never fired", t0, true},
		{"inside cooldown", t0.Add(10 * time.Minute), false},
		{"exactly at cooldown", t0.Add(StationaryCooldown), false},
		{"after cooldown", t0.Add(StationaryCooldown + time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.TryFire("r1", AlertStationary, tt.at, StationaryCooldown); got != tt.want {
				t.Errorf("TryFire at %v = %v, want %v", tt.at, got, tt.want)
			}
		})
	}

	// Kinds cool down independently
	if !tr.TryFire("r1", AlertRedirect, t0.Add(time.Minute), RedirectCooldown) {
		t.Error("redirect should fire regardless of stationary cooldown")
	}
}

func TestTryFireIsAtomic(t *testing.T) {
	tr := NewTracker()
	tr.Update("r1", 52.52, 13.405, t0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	fired := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.TryFire("r1", AlertStationary, t0.Add(time.Hour), StationaryCooldown) {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if fired != 1 {
		t.Errorf("fired %d times, want exactly 1", fired)
	}
}

func TestTrackerSnapshotAndPositions(t *testing.T) {
	tr := NewTracker()
	tr.Update("r1", 52.52, 13.405, t0)
	tr.Update("r2", 52.49, 13.39, t0)

	if got := tr.Count(); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
	if got := len(tr.Positions()); got != 2 {
		t.Errorf("len(Positions) = %d, want 2", got)
	}

	snap := tr.Snapshot()
	snap["r1"] = RiderState{}
	if s, _ := tr.Get("r1"); s.Lat != 52.52 {
		t.Error("mutating a snapshot must not change tracker state")
	}
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", i%5)
			for j := 0; j < 50; j++ {
				tr.Update(id, 52.52+float64(j)*0.001, 13.405, t0.Add(time.Duration(j)*time.Second))
				tr.Positions()
			}
		}(i)
	}
	wg.Wait()

	if got := tr.Count(); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
	for id, s := range tr.Snapshot() {
		if s.LastUpdateTime.Before(s.LastMoveTime) {
			t.Errorf("%s: LastUpdateTime %v before LastMoveTime %v", id, s.LastUpdateTime, s.LastMoveTime)
		}
	}
}
