package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"rider-fleet-backend/internal/ports"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = ports.ErrNotFound

// Connect opens the Postgres pool and verifies it with a ping
func Connect(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Open("postgres", dbURL)
	if err != nil {
		log.Printf("❌ DATABASE OPEN FAILED: %v", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error type: %T", err)
		log.Printf("   Error message: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

// Migrate creates the tables the engine reads and writes
func Migrate(ctx context.Context, db *sqlx.DB) error {
	migrations := []string{
		// Raw GPS trail, one row per accepted sample
		`CREATE TABLE IF NOT EXISTS gps_locations (
			id BIGSERIAL PRIMARY KEY,
			rider_id TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gps_locations_rider_time ON gps_locations(rider_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_gps_locations_time ON gps_locations(timestamp)`,

		// Scheduled windows, supplied by scheduling; attendance columns are ours
		`CREATE TABLE IF NOT EXISTS shift_bookings (
			id TEXT PRIMARY KEY,
			rider_id TEXT NOT NULL,
			window_start TIMESTAMPTZ NOT NULL,
			window_end TIMESTAMPTZ NOT NULL,
			actual_start_time TIMESTAMPTZ,
			actual_end_time TIMESTAMPTZ,
			worked_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			attendance_status TEXT CHECK(attendance_status IN (
				'NO_SHOW', 'INVALID_GPS', 'PARTIAL', 'LATE', 'LEFT_EARLY', 'LOW_PRODUCTIVITY', 'PRESENT'
			)),
			classified_at TIMESTAMPTZ,
			CHECK (window_end > window_start)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shift_bookings_rider ON shift_bookings(rider_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shift_bookings_due ON shift_bookings(window_end) WHERE attendance_status IS NULL`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			rider_id TEXT NOT NULL,
			message TEXT NOT NULL,
			type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_rider_created ON notifications(rider_id, created_at DESC)`,

		// Demand zones; sort_order is the registry's first-match order
		`CREATE TABLE IF NOT EXISTS demand_zones (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			radius_meters DOUBLE PRECISION NOT NULL CHECK(radius_meters > 0),
			weight INT NOT NULL CHECK(weight BETWEEN 1 AND 5),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			sort_order INT NOT NULL DEFAULT 0,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			rider_id TEXT NOT NULL,
			token TEXT NOT NULL,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_rider_id ON fcm_tokens(rider_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_fcm_tokens_token ON fcm_tokens(token)`,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps everything else
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
