package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"rider-fleet-backend/internal/models"
)

// BookingRepo reads shift windows and writes attendance results to shift_bookings
type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) GetBooking(ctx context.Context, bookingID string) (models.ShiftBooking, error) {
	var b models.ShiftBooking
	query := `SELECT id, rider_id, window_start, window_end FROM shift_bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &b, query, bookingID); err != nil {
		return models.ShiftBooking{}, notFound(err, "booking")
	}
	return b, nil
}

// GetAttendance returns the record of a classified booking. Unclassified
// bookings are reported as not found.
func (r *BookingRepo) GetAttendance(ctx context.Context, bookingID string) (models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	query := `SELECT id, rider_id, window_start, window_end, actual_start_time, actual_end_time,
	                 worked_hours, attendance_status, classified_at
	          FROM shift_bookings
	          WHERE id = $1 AND attendance_status IS NOT NULL`
	if err := r.db.GetContext(ctx, &rec, query, bookingID); err != nil {
		return models.AttendanceRecord{}, notFound(err, "attendance")
	}
	return rec, nil
}

// SaveAttendance overwrites the attendance columns of a booking
func (r *BookingRepo) SaveAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	query := `UPDATE shift_bookings
	          SET actual_start_time = $2,
	              actual_end_time = $3,
	              worked_hours = $4,
	              attendance_status = $5,
	              classified_at = $6
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		rec.BookingID,
		rec.ActualStart,
		rec.ActualEnd,
		rec.WorkedHours,
		string(rec.Status),
		rec.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DueBookings lists closed windows that were never classified, oldest first
func (r *BookingRepo) DueBookings(ctx context.Context, now time.Time, limit int) ([]models.ShiftBooking, error) {
	var bookings []models.ShiftBooking
	query := `SELECT id, rider_id, window_start, window_end
	          FROM shift_bookings
	          WHERE window_end <= $1 AND attendance_status IS NULL
	          ORDER BY window_end ASC
	          LIMIT $2`
	if err := r.db.SelectContext(ctx, &bookings, query, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list due bookings: %w", err)
	}
	return bookings, nil
}
