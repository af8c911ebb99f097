package reports

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"rider-fleet-backend/internal/models"
)

var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type memTelemetry struct {
	samples []models.GPSSample
}

func (m *memTelemetry) Append(_ context.Context, s models.GPSSample) error {
	m.samples = append(m.samples, s)
	return nil
}

func (m *memTelemetry) Range(_ context.Context, riderID string, from, to time.Time) ([]models.GPSSample, error) {
	var out []models.GPSSample
	for _, s := range m.samples {
		if s.RiderID == riderID && !s.Timestamp.Before(from) && !s.Timestamp.After(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *memTelemetry) Latest(context.Context, string) (models.GPSSample, bool, error) {
	return models.GPSSample{}, false, nil
}

func (m *memTelemetry) RidersSince(_ context.Context, from time.Time) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range m.samples {
		if !s.Timestamp.Before(from) && !seen[s.RiderID] {
			seen[s.RiderID] = true
			out = append(out, s.RiderID)
		}
	}
	return out, nil
}

// walk appends count samples moving north by 0.01° (~1.112 km) per step
func (m *memTelemetry) walk(riderID string, start time.Time, count int) {
	for i := 0; i < count; i++ {
		m.samples = append(m.samples, models.GPSSample{
			RiderID:   riderID,
			Latitude:  52.40 + float64(i)*0.01,
			Longitude: 13.40,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		})
	}
}

func newTestService(m *memTelemetry) *Service {
	s := NewService(m)
	s.now = func() time.Time { return now }
	return s
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodDay, false},
		{"day", PeriodDay, false},
		{"week", PeriodWeek, false},
		{"month", PeriodMonth, false},
		{"year", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	if got := PeriodDay.Start(now); !got.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day start = %v", got)
	}
	if got := PeriodWeek.Start(now); !got.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("week start = %v", got)
	}
	if got := PeriodMonth.Start(now); !got.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("month start = %v", got)
	}
}

func TestRiderDistanceByPeriod(t *testing.T) {
	m := &memTelemetry{}
	m.walk("r1", now.Add(-2*time.Hour), 4)  // today: 3 segments
	m.walk("r1", now.AddDate(0, 0, -3), 3)  // this week: 2 segments
	m.walk("r1", now.AddDate(0, 0, -20), 2) // this month: 1 segment
	svc := newTestService(m)

	// Each walk restarts at the same latitude, so moving from one walk to
	// the next backtracks over its own length.
	seg := 1.11195 // km per 0.01° of latitude
	tests := []struct {
		period Period
		want   float64
	}{
		{PeriodDay, 3 * seg},
		{PeriodWeek, (2 + 2 + 3) * seg},
		{PeriodMonth, (1 + 1 + 2 + 2 + 3) * seg},
	}
	for _, tt := range tests {
		got, err := svc.RiderDistance(context.Background(), "r1", tt.period)
		if err != nil {
			t.Fatalf("RiderDistance(%s): %v", tt.period, err)
		}
		if math.Abs(got.Km-tt.want) > 0.01 {
			t.Errorf("RiderDistance(%s) = %.3f km, want ~%.3f", tt.period, got.Km, tt.want)
		}
	}
}

func TestLeaderboardSortedByDistance(t *testing.T) {
	m := &memTelemetry{}
	m.walk("short", now.Add(-time.Hour), 2)
	m.walk("long", now.Add(-time.Hour), 5)
	m.walk("idle", now.Add(-time.Hour), 1)
	m.walk("stale", now.AddDate(0, 0, -2), 5)
	svc := newTestService(m)

	board, err := svc.Leaderboard(context.Background(), PeriodDay)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	var order []string
	for _, row := range board {
		order = append(order, row.RiderID)
	}
	want := []string{"long", "short", "idle"}
	if len(order) != len(want) {
		t.Fatalf("leaderboard = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("leaderboard = %v, want %v", order, want)
		}
	}
	if board[2].Km != 0 {
		t.Errorf("single-sample rider km = %v, want 0", board[2].Km)
	}
}

func TestRouteToday(t *testing.T) {
	m := &memTelemetry{}
	m.walk("r1", now.AddDate(0, 0, -1), 3)
	m.walk("r1", now.Add(-30*time.Minute), 3)
	svc := newTestService(m)

	route, err := svc.RouteToday(context.Background(), "r1")
	if err != nil {
		t.Fatalf("RouteToday: %v", err)
	}
	if len(route) != 3 {
		t.Fatalf("route has %d points, want 3", len(route))
	}
	if route[0].Lat != 52.40 || route[0].Lng != 13.40 || !route[0].Time.Equal(now.Add(-30*time.Minute)) {
		t.Errorf("first point = %+v", route[0])
	}
}
