package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"rider-fleet-backend/internal/models"
)

// TelemetryRepo stores rider GPS samples in gps_locations
type TelemetryRepo struct {
	db *sqlx.DB
}

func NewTelemetryRepo(db *sqlx.DB) *TelemetryRepo {
	return &TelemetryRepo{db: db}
}

func (r *TelemetryRepo) Append(ctx context.Context, s models.GPSSample) error {
	query := `INSERT INTO gps_locations (rider_id, latitude, longitude, timestamp)
	          VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, s.RiderID, s.Latitude, s.Longitude, s.Timestamp); err != nil {
		return fmt.Errorf("failed to insert gps sample: %w", err)
	}
	return nil
}

// Range returns samples with from <= timestamp <= to, oldest first
func (r *TelemetryRepo) Range(ctx context.Context, riderID string, from, to time.Time) ([]models.GPSSample, error) {
	var samples []models.GPSSample
	query := `SELECT id, rider_id, latitude, longitude, timestamp
	          FROM gps_locations
	          WHERE rider_id = $1 AND timestamp BETWEEN $2 AND $3
	          ORDER BY timestamp ASC, id ASC`

	if err := r.db.SelectContext(ctx, &samples, query, riderID, from, to); err != nil {
		return nil, fmt.Errorf("failed to get gps samples: %w", err)
	}
	return samples, nil
}

func (r *TelemetryRepo) Latest(ctx context.Context, riderID string) (models.GPSSample, bool, error) {
	var s models.GPSSample
	query := `SELECT id, rider_id, latitude, longitude, timestamp
	          FROM gps_locations
	          WHERE rider_id = $1
	          ORDER BY timestamp DESC, id DESC
	          LIMIT 1`

	err := r.db.GetContext(ctx, &s, query, riderID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GPSSample{}, false, nil
	}
	if err != nil {
		return models.GPSSample{}, false, fmt.Errorf("failed to get latest gps sample: %w", err)
	}
	return s, true, nil
}

func (r *TelemetryRepo) RidersSince(ctx context.Context, from time.Time) ([]string, error) {
	var riders []string
	query := `SELECT DISTINCT rider_id FROM gps_locations WHERE timestamp >= $1 ORDER BY rider_id`
	if err := r.db.SelectContext(ctx, &riders, query, from); err != nil {
		return nil, fmt.Errorf("failed to list active riders: %w", err)
	}
	return riders, nil
}
