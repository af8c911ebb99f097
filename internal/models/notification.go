package models

import "time"

// NotificationType values
const (
	NotificationZoneNudge = "ZONE_NUDGE"
)

// Notification is an append-only nudge sent to a rider
type Notification struct {
	ID        string    `json:"id" db:"id"`
	RiderID   string    `json:"rider_id" db:"rider_id"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
