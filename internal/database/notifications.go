package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"rider-fleet-backend/internal/models"
)

// NotificationRepo is the append-only notifications table plus device tokens
type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) RecentExists(ctx context.Context, riderID string, since time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	              SELECT 1 FROM notifications WHERE rider_id = $1 AND created_at >= $2
	          )`
	if err := r.db.GetContext(ctx, &exists, query, riderID, since); err != nil {
		return false, fmt.Errorf("failed to check recent notifications: %w", err)
	}
	return exists, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) error {
	query := `INSERT INTO notifications (id, rider_id, message, type, created_at)
	          VALUES (:id, :rider_id, :message, :type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// TokensFor returns the rider's FCM tokens, newest first
func (r *NotificationRepo) TokensFor(ctx context.Context, riderID string) ([]string, error) {
	var tokens []string
	query := `SELECT token FROM fcm_tokens WHERE rider_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &tokens, query, riderID); err != nil {
		return nil, fmt.Errorf("failed to get fcm tokens: %w", err)
	}
	return tokens, nil
}

// SaveToken inserts or re-assigns a device token
func (r *NotificationRepo) SaveToken(ctx context.Context, riderID, token, deviceType string) error {
	now := time.Now().Unix()
	query := `INSERT INTO fcm_tokens (rider_id, token, device_type, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT(token) DO UPDATE SET
				  rider_id = excluded.rider_id,
				  device_type = excluded.device_type,
				  updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, riderID, token, deviceType, now, now); err != nil {
		return fmt.Errorf("failed to save fcm token: %w", err)
	}
	return nil
}
