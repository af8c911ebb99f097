package ports

import (
	"context"
	"time"

	"rider-fleet-backend/internal/models"
)

// Port: scheduled windows in, attendance records out.
type AttendanceStore interface {
	GetBooking(ctx context.Context, bookingID string) (models.ShiftBooking, error)
	GetAttendance(ctx context.Context, bookingID string) (models.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, rec models.AttendanceRecord) error
	// Bookings whose window ended before now and that were never classified.
	DueBookings(ctx context.Context, now time.Time, limit int) ([]models.ShiftBooking, error)
}
