package models

import "time"

// AttendanceStatus is the GPS-derived classification of a booked shift window
type AttendanceStatus string

const (
	AttendanceNoShow          AttendanceStatus = "NO_SHOW"
	AttendanceInvalidGPS      AttendanceStatus = "INVALID_GPS"
	AttendancePartial         AttendanceStatus = "PARTIAL"
	AttendanceLate            AttendanceStatus = "LATE"
	AttendanceLeftEarly       AttendanceStatus = "LEFT_EARLY"
	AttendanceLowProductivity AttendanceStatus = "LOW_PRODUCTIVITY"
	AttendancePresent         AttendanceStatus = "PRESENT"
)

// ShiftBooking is a rider's scheduled work window as supplied by scheduling
type ShiftBooking struct {
	ID          string    `json:"id" db:"id"`
	RiderID     string    `json:"rider_id" db:"rider_id"`
	WindowStart time.Time `json:"window_start" db:"window_start"`
	WindowEnd   time.Time `json:"window_end" db:"window_end"`
}

// AttendanceRecord is the classifier output for one booking
type AttendanceRecord struct {
	BookingID    string           `json:"booking_id" db:"id"`
	RiderID      string           `json:"rider_id" db:"rider_id"`
	WindowStart  time.Time        `json:"window_start" db:"window_start"`
	WindowEnd    time.Time        `json:"window_end" db:"window_end"`
	ActualStart  *time.Time       `json:"actual_start" db:"actual_start_time"`
	ActualEnd    *time.Time       `json:"actual_end" db:"actual_end_time"`
	WorkedHours  float64          `json:"worked_hours" db:"worked_hours"`
	Status       AttendanceStatus `json:"attendance_status" db:"attendance_status"`
	ClassifiedAt time.Time        `json:"classified_at" db:"classified_at"` // Wall clock, not part of the classification
}
