package attendance

import (
	"reflect"
	"testing"
	"time"

	"rider-fleet-backend/internal/models"
)

var (
	windowStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
)

func testBooking() models.ShiftBooking {
	return models.ShiftBooking{ID: "b1", RiderID: "r1", WindowStart: windowStart, WindowEnd: windowEnd}
}

// trail builds count samples starting at from, every step, moving north by
// degLat per sample (0.03° is roughly 3.3 km).
func trail(from time.Time, step time.Duration, count int, degLat float64) []models.GPSSample {
	out := make([]models.GPSSample, count)
	for i := range out {
		out[i] = models.GPSSample{
			RiderID:   "r1",
			Latitude:  52.40 + float64(i)*degLat,
			Longitude: 13.40,
			Timestamp: from.Add(time.Duration(i) * step),
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		samples     []models.GPSSample
		wantStatus  models.AttendanceStatus
		wantHours   float64
		wantActuals bool
	}{
		{
			name:       "no samples",
			samples:    nil,
			wantStatus: models.AttendanceNoShow,
		},
		{
			name:       "60 km/h average",
			samples:    trail(windowStart, time.Hour, 2, 0.5396),
			wantStatus: models.AttendanceInvalidGPS,
		},
		{
			name:       "zero elapsed time",
			samples:    trail(windowStart, 0, 3, 0.001),
			wantStatus: models.AttendanceInvalidGPS,
		},
		{
			name:        "full shift",
			samples:     trail(windowStart, 30*time.Minute, 17, 0.03),
			wantStatus:  models.AttendancePresent,
			wantHours:   8,
			wantActuals: true,
		},
		{
			name:        "late start",
			samples:     trail(windowStart.Add(30*time.Minute), 30*time.Minute, 16, 0.03),
			wantStatus:  models.AttendanceLate,
			wantHours:   7.5,
			wantActuals: true,
		},
		{
			name:        "left early",
			samples:     trail(windowStart, 30*time.Minute, 15, 0.03),
			wantStatus:  models.AttendanceLeftEarly,
			wantHours:   7,
			wantActuals: true,
		},
		{
			name:        "partial dominates late",
			samples:     trail(windowStart.Add(time.Hour), 30*time.Minute, 4, 0.03),
			wantStatus:  models.AttendancePartial,
			wantHours:   1.5,
			wantActuals: true,
		},
		{
			name:        "half a km in an hour",
			samples:     trail(windowStart, 15*time.Minute, 5, 0.0011241),
			wantStatus:  models.AttendanceLowProductivity,
			wantHours:   1,
			wantActuals: true,
		},
		{
			name:        "slow full shift",
			samples:     trail(windowStart, time.Hour, 9, 0.001),
			wantStatus:  models.AttendanceLowProductivity,
			wantHours:   8,
			wantActuals: true,
		},
		{
			name:        "single sample",
			samples:     trail(windowStart.Add(time.Hour), 0, 1, 0),
			wantStatus:  models.AttendanceLowProductivity,
			wantHours:   0,
			wantActuals: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Classify(testBooking(), tt.samples)

			if rec.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", rec.Status, tt.wantStatus)
			}
			if rec.WorkedHours != tt.wantHours {
				t.Errorf("WorkedHours = %v, want %v", rec.WorkedHours, tt.wantHours)
			}
			if tt.wantActuals {
				if rec.ActualStart == nil || rec.ActualEnd == nil {
					t.Fatal("actual start/end should be set")
				}
				if !rec.ActualStart.Equal(tt.samples[0].Timestamp) || !rec.ActualEnd.Equal(tt.samples[len(tt.samples)-1].Timestamp) {
					t.Errorf("actuals = %v..%v, want first/last sample", rec.ActualStart, rec.ActualEnd)
				}
			} else if rec.ActualStart != nil || rec.ActualEnd != nil {
				t.Errorf("actuals = %v..%v, want nil", rec.ActualStart, rec.ActualEnd)
			}
			if rec.BookingID != "b1" || rec.RiderID != "r1" {
				t.Errorf("record identity = %s/%s", rec.BookingID, rec.RiderID)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	samples := trail(windowStart.Add(20*time.Minute), 20*time.Minute, 20, 0.01)

	first := Classify(testBooking(), samples)
	second := Classify(testBooking(), samples)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification differs between runs:\n%+v\n%+v", first, second)
	}
}
