package ports

import (
	"context"
	"time"

	"rider-fleet-backend/internal/models"
)

// Contract for persisting and querying time-ordered rider GPS samples.
type TelemetryStore interface {
	// Persist one accepted sample.
	Append(ctx context.Context, sample models.GPSSample) error
	// Samples for a rider with from <= timestamp <= to, oldest first.
	Range(ctx context.Context, riderID string, from, to time.Time) ([]models.GPSSample, error)
	// The rider's most recent sample; ok is false when the rider has none.
	Latest(ctx context.Context, riderID string) (sample models.GPSSample, ok bool, err error)
	// Distinct riders that reported at or after from.
	RidersSince(ctx context.Context, from time.Time) ([]string, error)
}
