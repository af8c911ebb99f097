package ports

import (
	"context"
	"time"

	"rider-fleet-backend/internal/models"
)

// Port: append-only rider notifications.
type NotificationStore interface {
	// Whether any notification for the rider was created at or after since.
	RecentExists(ctx context.Context, riderID string, since time.Time) (bool, error)
	Create(ctx context.Context, n models.Notification) error
}

// Port: push delivery tokens registered by rider devices.
type DeviceTokenStore interface {
	TokensFor(ctx context.Context, riderID string) ([]string, error)
	SaveToken(ctx context.Context, riderID, token, deviceType string) error
}
