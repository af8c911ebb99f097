package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/ports"
)

// ErrBookingNotFound is returned when the booking id is unknown
var ErrBookingNotFound = errors.New("booking not found")

const sweepBatchSize = 100

// PostClassifyHook runs after a record is saved, e.g. the idle/zone notifier
type PostClassifyHook interface {
	Check(ctx context.Context, riderID string) (*models.Notification, error)
}

// Service loads bookings and samples, classifies and persists the result.
type Service struct {
	bookings  ports.AttendanceStore
	telemetry ports.TelemetryStore
	notifier  PostClassifyHook
	now       func() time.Time
}

// NewService wires the classifier to its stores. notifier may be nil.
func NewService(bookings ports.AttendanceStore, telemetry ports.TelemetryStore, notifier PostClassifyHook) *Service {
	return &Service{
		bookings:  bookings,
		telemetry: telemetry,
		notifier:  notifier,
		now:       time.Now,
	}
}

// ClassifyBooking classifies one booking and overwrites its attendance record.
// Re-running it is safe and yields the same classification.
func (s *Service) ClassifyBooking(ctx context.Context, bookingID string) (models.AttendanceRecord, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return models.AttendanceRecord{}, ErrBookingNotFound
		}
		return models.AttendanceRecord{}, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	return s.classify(ctx, booking)
}

func (s *Service) classify(ctx context.Context, booking models.ShiftBooking) (models.AttendanceRecord, error) {
	samples, err := s.telemetry.Range(ctx, booking.RiderID, booking.WindowStart, booking.WindowEnd)
	if err != nil {
		return models.AttendanceRecord{}, fmt.Errorf("load samples for booking %s: %w", booking.ID, err)
	}

	rec := Classify(booking, samples)
	rec.ClassifiedAt = s.now()

	if err := s.bookings.SaveAttendance(ctx, rec); err != nil {
		return models.AttendanceRecord{}, fmt.Errorf("save attendance for booking %s: %w", booking.ID, err)
	}
	log.Printf("✅ Booking %s classified: %s (%.2fh, %d samples)", booking.ID, rec.Status, rec.WorkedHours, len(samples))

	if s.notifier != nil {
		if _, err := s.notifier.Check(ctx, booking.RiderID); err != nil {
			log.Printf("⚠️ Idle check failed for rider %s: %v", booking.RiderID, err)
		}
	}
	return rec, nil
}

// GetAttendance returns the stored record for a booking
func (s *Service) GetAttendance(ctx context.Context, bookingID string) (models.AttendanceRecord, error) {
	rec, err := s.bookings.GetAttendance(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return models.AttendanceRecord{}, ErrBookingNotFound
		}
		return models.AttendanceRecord{}, fmt.Errorf("load attendance %s: %w", bookingID, err)
	}
	return rec, nil
}

// RunSweeper classifies bookings whose window has closed until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	log.Printf("🕒 Attendance sweeper started (every %s)", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Attendance sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep classifies one batch of due bookings and returns how many succeeded
func (s *Service) Sweep(ctx context.Context) int {
	due, err := s.bookings.DueBookings(ctx, s.now(), sweepBatchSize)
	if err != nil {
		log.Printf("❌ Attendance sweep: list due bookings failed: %v", err)
		return 0
	}

	done := 0
	for _, booking := range due {
		if _, err := s.classify(ctx, booking); err != nil {
			if errors.Is(err, context.Canceled) {
				return done
			}
			log.Printf("❌ Attendance sweep: %v", err)
			continue
		}
		done++
	}
	return done
}
