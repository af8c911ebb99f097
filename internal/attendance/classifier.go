// Package attendance classifies booked shift windows from the rider's GPS
// trail and records the outcome.
package attendance

import (
	"math"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
)

const (
	// MinPartialHours is the worked time below which a shift is PARTIAL
	MinPartialHours = 2.0
	// MaxKmPerHour is the average speed above which the trail is implausible
	MaxKmPerHour = 40.0
	// MinKmPerHour is the productivity floor
	MinKmPerHour = 1.5
)

// Classify derives an attendance record for a booking from the samples
// inside its window. samples must be ordered by timestamp. It is pure:
// ClassifiedAt is left for the caller to stamp.
func Classify(booking models.ShiftBooking, samples []models.GPSSample) models.AttendanceRecord {
	rec := models.AttendanceRecord{
		BookingID:   booking.ID,
		RiderID:     booking.RiderID,
		WindowStart: booking.WindowStart,
		WindowEnd:   booking.WindowEnd,
	}

	if len(samples) == 0 {
		rec.Status = models.AttendanceNoShow
		return rec
	}

	pathKm := geo.PathKm(toPoints(samples))

	first := samples[0].Timestamp
	last := samples[len(samples)-1].Timestamp

	if len(samples) >= 2 && !plausibleSpeed(pathKm, last.Sub(first).Hours()) {
		rec.Status = models.AttendanceInvalidGPS
		return rec
	}

	start, end := first, last
	rec.ActualStart = &start
	rec.ActualEnd = &end
	rec.WorkedHours = math.Max(0, geo.Round(end.Sub(start).Hours(), 2))

	switch {
	case rec.WorkedHours < MinPartialHours:
		rec.Status = models.AttendancePartial
	case start.After(booking.WindowStart):
		rec.Status = models.AttendanceLate
	case end.Before(booking.WindowEnd):
		rec.Status = models.AttendanceLeftEarly
	default:
		rec.Status = models.AttendancePresent
	}

	var kmPerHour float64
	if rec.WorkedHours > 0 {
		kmPerHour = pathKm / rec.WorkedHours
	}
	if kmPerHour < MinKmPerHour {
		rec.Status = models.AttendanceLowProductivity
	}

	return rec
}

// plausibleSpeed rejects zero-length trails and anything averaging over MaxKmPerHour
func plausibleSpeed(km, hours float64) bool {
	if hours <= 0 {
		return false
	}
	return km/hours <= MaxKmPerHour
}

func toPoints(samples []models.GPSSample) []geo.Point {
	pts := make([]geo.Point, len(samples))
	for i, s := range samples {
		pts[i] = geo.Point{Lat: s.Latitude, Lon: s.Longitude}
	}
	return pts
}
